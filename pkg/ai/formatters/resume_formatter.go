package formatters

import (
	"context"
	"errors"
	"fmt"
)

const resumeTemplate = `{
  "header": {
    "name": "", "email": "", "phone": "", "location": "", "tagline": "",
    "website": "", "linkedin": "", "github": "", "lastUpdated": "",
    "skills": {"languages": [], "webDevelopment": [], "aiML": [], "cloudData": [], "tools": []}
  },
  "education": {
    "university": "", "degree": "", "major": "", "startDate": "MM/YYYY",
    "endDate": "MM/YYYY or Present", "gpa": "", "coursework": []
  },
  "experience": [
    {"title": "company", "position": "role", "startDate": "MM/YYYY", "endDate": "MM/YYYY or Present",
     "description": "", "location": "", "url": ""}
  ],
  "projects": [
    {"title": "", "date": "MM/YYYY", "endDate": "", "description": "", "event": "",
     "organization": "", "award": "", "url": "", "technologies": []}
  ]
}`

const resumeInstructions = `Respond with ONLY a single JSON object shaped exactly like TEMPLATE. No prose, backticks or code fences.
Rules:
- Missing values are "" for strings and [] for lists. Never invent facts.
- Dates use MM/YYYY. A bare year becomes 01/YYYY for starts and 12/YYYY for ends. Ongoing roles end with "Present".
- In experience, "title" is the company and "position" is the role.
- Put each achievement in "description" as one sentence ending with a period.
- Sort skills into the five template categories.
- Leave header.lastUpdated empty.`

// ResumeFormatter asks the ai-service to structure raw resume text.
type ResumeFormatter struct {
	chat Chatter
}

func NewResumeFormatter(chat Chatter) *ResumeFormatter {
	return &ResumeFormatter{chat: chat}
}

// Format expects payload["text"] to hold the extracted document text.
func (f *ResumeFormatter) Format(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	text, _ := payload["text"].(string)
	if text == "" {
		return nil, errors.New("resume formatter: empty text")
	}
	userCtx := map[string]interface{}{"instructions": resumeInstructions, "template": resumeTemplate}
	input := "Parse this resume into TEMPLATE:\n" + mustMarshal(userCtx) + "\n\nRESUME TEXT:\n" + text

	out, err := f.chat.Chat(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("resume formatter: %w", err)
	}
	return DecodeObject(out)
}
