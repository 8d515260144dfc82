package formatters

import (
	"context"
	"fmt"
)

const actionInstructions = `You control a web browser to complete TASK. Each turn you see the current page as a list of
interactive elements, each with a ref. Reply with ONLY one JSON object describing the next action:
{"action": "navigate|click|type|press|wait|done|fail", "ref": "element ref", "url": "", "text": "", "key": "", "reason": ""}
- click and type need a ref; type replaces the field value with text.
- press sends key (Enter, Tab, Escape, ArrowDown) to the focused element.
- For dropdowns, type the value, then press Tab and Enter, and choose the first matching option.
- Reply "done" once the form has been saved. Skip any prompt shown after saving.
- Reply "fail" with a reason when the task cannot be completed.`

// ActionFormatter asks the ai-service for the next browser step.
type ActionFormatter struct {
	chat Chatter
}

func NewActionFormatter(chat Chatter) *ActionFormatter {
	return &ActionFormatter{chat: chat}
}

// Format expects payload keys "task", "page" and "history".
func (f *ActionFormatter) Format(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	input := actionInstructions + "\n\nSTATE:\n" + mustMarshal(payload)
	out, err := f.chat.Chat(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("action formatter: %w", err)
	}
	return DecodeObject(out)
}
