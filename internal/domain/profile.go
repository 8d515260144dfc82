package domain

import "strings"

// Employment types recognised by profile forms.
const (
	EmploymentFullTime   = "Full-time"
	EmploymentPartTime   = "Part-time"
	EmploymentInternship = "Internship"
	EmploymentContract   = "Contract"
	EmploymentFreelance  = "Freelance"
	EmploymentVolunteer  = "Volunteer"
)

// ProfileExperience is the payload an external profile form receives for one
// position.
type ProfileExperience struct {
	Title                string `json:"title"`
	EmploymentType       string `json:"employmentType"`
	CompanyName          string `json:"companyName"`
	CurrentlyWorkingHere bool   `json:"currentlyWorkingHere"`
	StartDate            string `json:"startDate"`
	EndDate              string `json:"endDate,omitempty"`
	Location             string `json:"location,omitempty"`
	Description          string `json:"description"`
}

// NewProfileExperience maps a resume experience entry onto a profile form.
func NewProfileExperience(e ExperienceEntry) ProfileExperience {
	p := ProfileExperience{
		Title:                e.Position,
		EmploymentType:       EmploymentTypeFor(e.Position),
		CompanyName:          e.Title,
		CurrentlyWorkingHere: e.IsCurrent(),
		StartDate:            e.StartDate,
		Location:             e.Location,
		Description:          strings.Join(Bullets(e.Description, e.Highlights), "\n"),
	}
	if !p.CurrentlyWorkingHere {
		p.EndDate = e.EndDate
	}
	return p
}

// EmploymentTypeFor guesses the employment type from a position title.
func EmploymentTypeFor(position string) string {
	p := strings.ToLower(position)
	switch {
	case strings.Contains(p, "intern"):
		return EmploymentInternship
	case strings.Contains(p, "contract"):
		return EmploymentContract
	case strings.Contains(p, "part-time"), strings.Contains(p, "part time"):
		return EmploymentPartTime
	case strings.Contains(p, "freelance"):
		return EmploymentFreelance
	case strings.Contains(p, "volunteer"):
		return EmploymentVolunteer
	}
	return EmploymentFullTime
}
