package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Browser is one live page session.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	// Capture tags interactive elements with RefAttr and returns the current
	// URL and document HTML.
	Capture(ctx context.Context) (url, html string, err error)
	Click(ctx context.Context, ref string) error
	Type(ctx context.Context, ref, text string) error
	Press(ctx context.Context, key string) error
	Close()
}

// BrowserFactory opens a fresh browser session.
type BrowserFactory interface {
	Open(ctx context.Context) (Browser, error)
}

const (
	ActionNavigate = "navigate"
	ActionClick    = "click"
	ActionType     = "type"
	ActionPress    = "press"
	ActionWait     = "wait"
	ActionDone     = "done"
	ActionFail     = "fail"
)

type Action struct {
	Kind   string `json:"action"`
	Ref    string `json:"ref,omitempty"`
	URL    string `json:"url,omitempty"`
	Text   string `json:"text,omitempty"`
	Key    string `json:"key,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Step records an executed action and its error, if any.
type Step struct {
	Action Action `json:"action"`
	Error  string `json:"error,omitempty"`
}

// Planner picks the next action for task given the current page.
type Planner interface {
	Next(ctx context.Context, task string, page Page, history []Step) (Action, error)
}

var (
	ErrTaskFailed = errors.New("task failed")
	ErrStepLimit  = errors.New("step limit reached")
)

const maxConsecutiveErrors = 3

// Agent runs the capture, plan, act loop.
type Agent struct {
	planner  Planner
	maxSteps int
	logger   *slog.Logger
}

func NewAgent(planner Planner, maxSteps int, logger *slog.Logger) *Agent {
	if maxSteps <= 0 {
		maxSteps = 25
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{planner: planner, maxSteps: maxSteps, logger: logger}
}

// Run works on task until the planner reports done or fail. Typed text of
// the form {{name}} is replaced from secrets just before it reaches the
// page, so secret values never appear in prompts or history.
func (a *Agent) Run(ctx context.Context, b Browser, task string, secrets map[string]string) ([]Step, error) {
	var history []Step
	failures := 0
	for i := 0; i < a.maxSteps; i++ {
		if err := ctx.Err(); err != nil {
			return history, err
		}
		url, html, err := b.Capture(ctx)
		if err != nil {
			return history, fmt.Errorf("capture page: %w", err)
		}
		page, err := ParsePage(url, html)
		if err != nil {
			return history, fmt.Errorf("parse page: %w", err)
		}
		act, err := a.planner.Next(ctx, task, page, history)
		if err != nil {
			return history, fmt.Errorf("plan step %d: %w", i+1, err)
		}
		a.logger.Debug("agent step", "step", i+1, "action", act.Kind, "ref", act.Ref, "url", page.URL)

		switch act.Kind {
		case ActionDone:
			return append(history, Step{Action: act}), nil
		case ActionFail:
			return append(history, Step{Action: act}), fmt.Errorf("%w: %s", ErrTaskFailed, act.Reason)
		}

		step := Step{Action: act}
		if err := execute(ctx, b, act, secrets); err != nil {
			step.Error = err.Error()
			failures++
		} else {
			failures = 0
		}
		history = append(history, step)
		if failures >= maxConsecutiveErrors {
			return history, fmt.Errorf("%w: %d consecutive action errors, last: %s", ErrTaskFailed, failures, step.Error)
		}
	}
	return history, ErrStepLimit
}

func execute(ctx context.Context, b Browser, act Action, secrets map[string]string) error {
	switch act.Kind {
	case ActionNavigate:
		if act.URL == "" {
			return errors.New("navigate needs a url")
		}
		return b.Navigate(ctx, act.URL)
	case ActionClick:
		if act.Ref == "" {
			return errors.New("click needs a ref")
		}
		return b.Click(ctx, act.Ref)
	case ActionType:
		if act.Ref == "" {
			return errors.New("type needs a ref")
		}
		return b.Type(ctx, act.Ref, expandSecrets(act.Text, secrets))
	case ActionPress:
		return b.Press(ctx, act.Key)
	case ActionWait:
		return nil
	}
	return fmt.Errorf("unknown action %q", act.Kind)
}

func expandSecrets(text string, secrets map[string]string) string {
	for name, value := range secrets {
		text = strings.ReplaceAll(text, "{{"+name+"}}", value)
	}
	return text
}
