package automation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ObjectFormatter turns a JSON-like payload into a JSON-like reply.
type ObjectFormatter interface {
	Format(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error)
}

// LLMPlanner asks a language model for each step.
type LLMPlanner struct {
	formatter ObjectFormatter
	// historyWindow bounds how many past steps are sent back.
	historyWindow int
}

func NewLLMPlanner(f ObjectFormatter) *LLMPlanner {
	return &LLMPlanner{formatter: f, historyWindow: 10}
}

func (p *LLMPlanner) Next(ctx context.Context, task string, page Page, history []Step) (Action, error) {
	if len(history) > p.historyWindow {
		history = history[len(history)-p.historyWindow:]
	}
	reply, err := p.formatter.Format(ctx, map[string]interface{}{
		"task":    task,
		"page":    page,
		"history": history,
	})
	if err != nil {
		return Action{}, err
	}
	raw, err := json.Marshal(reply)
	if err != nil {
		return Action{}, err
	}
	var act Action
	if err := json.Unmarshal(raw, &act); err != nil {
		return Action{}, fmt.Errorf("decode planner action: %w", err)
	}
	act.Kind = strings.ToLower(strings.TrimSpace(act.Kind))
	if act.Kind == "" {
		return Action{}, fmt.Errorf("planner reply has no action: %s", raw)
	}
	return act, nil
}
