package automation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"resume-api/internal/domain"
)

// Site describes how to sign in to and reach the experience form of one
// profile website.
type Site struct {
	Key      string
	Name     string
	LoginURL string
	// AddURL and EditURL open the new-position form and the list of
	// existing positions.
	AddURL   string
	EditURL  string
	Username string
	Password string
}

// LinkedInSite targets the LinkedIn new-position form for profileID.
func LinkedInSite(profileID, username, password string) Site {
	if profileID == "" {
		profileID = "me"
	}
	return Site{
		Key:      "linkedin",
		Name:     "LinkedIn",
		LoginURL: "https://www.linkedin.com/login",
		AddURL:   "https://www.linkedin.com/in/" + profileID + "/edit/forms/position/new/?profileFormEntryPoint=PROFILE_SECTION",
		EditURL:  "https://www.linkedin.com/in/" + profileID + "/details/experience/",
		Username: username,
		Password: password,
	}
}

// SimplifySite targets the Simplify job-board profile.
func SimplifySite(username, password string) Site {
	return Site{
		Key:      "simplify",
		Name:     "Simplify",
		LoginURL: "https://simplify.jobs/auth/login",
		AddURL:   "https://simplify.jobs/profile?sidebar=experience-new",
		EditURL:  "https://simplify.jobs/profile",
		Username: username,
		Password: password,
	}
}

// ProfileAgent fills a site's experience form with a browser agent.
type ProfileAgent struct {
	site    Site
	browser BrowserFactory
	agent   *Agent
	logger  *slog.Logger
}

func NewProfileAgent(site Site, browser BrowserFactory, agent *Agent, logger *slog.Logger) *ProfileAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileAgent{site: site, browser: browser, agent: agent, logger: logger.With("site", site.Key)}
}

// PerformProfileUpdate signs in and submits exp. It returns false on any
// failure, including missing credentials.
func (p *ProfileAgent) PerformProfileUpdate(ctx context.Context, action string, exp domain.ProfileExperience) bool {
	if p.site.Username == "" || p.site.Password == "" {
		p.logger.Error("profile credentials not configured")
		return false
	}
	b, err := p.browser.Open(ctx)
	if err != nil {
		p.logger.Error("open browser", "error", err)
		return false
	}
	defer b.Close()

	secrets := map[string]string{"username": p.site.Username, "password": p.site.Password}
	if err := b.Navigate(ctx, p.site.LoginURL); err != nil {
		p.logger.Error("open login page", "error", err)
		return false
	}
	if _, err := p.agent.Run(ctx, b, loginTask(p.site), secrets); err != nil {
		p.logger.Error("login failed", "error", err)
		return false
	}

	target := p.site.AddURL
	if action == "edit" {
		target = p.site.EditURL
	}
	if err := b.Navigate(ctx, target); err != nil {
		p.logger.Error("open experience form", "error", err)
		return false
	}
	steps, err := p.agent.Run(ctx, b, formTask(p.site, action, exp), secrets)
	if err != nil {
		p.logger.Error("experience form failed", "error", err, "steps", len(steps))
		return false
	}
	p.logger.Info("experience form submitted", "steps", len(steps), "position", exp.Title)
	return true
}

func loginTask(s Site) string {
	return fmt.Sprintf("Sign in to %s. Type {{username}} into the email or username field and {{password}} into the password field, "+
		"then submit. Reply done as soon as you are signed in.", s.Name)
}

func formTask(s Site, action string, exp domain.ProfileExperience) string {
	form, _ := json.MarshalIndent(exp, "", "  ")
	var sb strings.Builder
	if action == "edit" {
		fmt.Fprintf(&sb, "On %s, open the existing position %q at %q and update it so every field matches FORM.\n", s.Name, exp.Title, exp.CompanyName)
	} else {
		fmt.Fprintf(&sb, "On %s, fill in the new position form with FORM.\n", s.Name)
	}
	sb.WriteString("Fill title, employment type, company, dates and description.\n")
	if exp.CurrentlyWorkingHere {
		sb.WriteString("Tick the box saying I currently work here and leave the end date empty.\n")
	}
	sb.WriteString("Save the form, then reply done.\nFORM:\n")
	sb.Write(form)
	return sb.String()
}
