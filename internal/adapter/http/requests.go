package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"resume-api/internal/domain"
)

type exportReq struct {
	Format        string                  `json:"format"`
	Filename      string                  `json:"filename,omitempty" validate:"omitempty,max=128"`
	ExperienceIDs []string                `json:"selected_experience_ids,omitempty" validate:"omitempty,dive,required"`
	ProjectIDs    []string                `json:"selected_project_ids,omitempty" validate:"omitempty,dive,required"`
	Settings      *domain.PartialSettings `json:"settings,omitempty"`
}

type profileReq struct {
	ExperienceID    *string `json:"experience_id,omitempty"`
	ExperienceIndex *int    `json:"experience_index,omitempty" validate:"omitempty,min=0"`
	Action          string  `json:"action"`
}

type parseReq struct {
	FileContent string `json:"fileContent" validate:"required"`
	FileName    string `json:"fileName"`
	FileType    string `json:"fileType"`
}

type parseURLReq struct {
	URL string `json:"url" validate:"required,url"`
}

// validationMessage flattens validator errors into one readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s is %s", fe.Namespace(), fe.Tag()))
		}
	}
	return "invalid request: " + strings.Join(parts, "; ")
}
