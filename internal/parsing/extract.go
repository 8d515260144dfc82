// Package parsing pulls plain text out of uploaded resume documents.
package parsing

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var ErrUnsupported = errors.New("unsupported file type")

// DetectKind decides the document type from the file name extension, falling
// back to the declared type ("pdf", "docx" or a MIME type).
func DetectKind(fileName, fileType string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return KindPDF, nil
	case ".docx":
		return KindDOCX, nil
	}
	t := strings.ToLower(strings.TrimSpace(strings.Split(fileType, ";")[0]))
	switch {
	case t == "pdf" || t == mimePDF || strings.HasSuffix(t, "/pdf"):
		return KindPDF, nil
	case t == "docx" || t == mimeDOCX:
		return KindDOCX, nil
	}
	return "", fmt.Errorf("%w: name=%q type=%q", ErrUnsupported, fileName, fileType)
}

// ExtractText returns the plain text of a PDF or DOCX payload.
func ExtractText(kind Kind, data []byte) (string, error) {
	switch kind {
	case KindPDF:
		return extractPDF(data)
	case KindDOCX:
		return extractDOCX(data)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupported, kind)
}

func extractPDF(data []byte) (string, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return stripDocxXML(raw), nil
}

// stripDocxXML keeps character data and ends a line at each paragraph,
// break and tab element.
func stripDocxXML(raw []byte) string {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return string(raw)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteString("\t")
			}
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
