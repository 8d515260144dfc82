package usecase

import "errors"

var (
	ErrUnsupportedFormat    = errors.New("unsupported export format")
	ErrUnsupportedAction    = errors.New("unsupported profile action")
	ErrUnknownSite          = errors.New("unknown profile site")
	ErrNoExperiences        = errors.New("no experience entries found")
	ErrExperienceNotFound   = errors.New("experience not found")
	ErrExperienceIndexRange = errors.New("experience index out of range")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrEmptyDocument        = errors.New("no text could be extracted from the document")
)
