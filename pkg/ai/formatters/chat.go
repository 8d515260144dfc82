// Package formatters builds ai-service prompts and decodes their JSON replies.
package formatters

import (
	"context"
	"encoding/json"
	"fmt"
)

// Chatter sends one chat input to the ai-service and returns its raw output.
type Chatter interface {
	Chat(ctx context.Context, input string) (string, error)
}

// DecodeObject parses output as a JSON object. Replies wrapped in prose or
// code fences are parsed from the first '{' to the last '}'.
func DecodeObject(output string) (map[string]interface{}, error) {
	var out map[string]interface{}
	err := json.Unmarshal([]byte(output), &out)
	if err == nil && out != nil {
		return out, nil
	}
	start := -1
	end := -1
	for i, r := range output {
		if r == '{' {
			start = i
			break
		}
	}
	for i := len(output) - 1; i >= 0; i-- {
		if output[i] == '}' {
			end = i
			break
		}
	}
	if start >= 0 && end > start {
		if err2 := json.Unmarshal([]byte(output[start:end+1]), &out); err2 == nil {
			return out, nil
		}
	}
	if err == nil {
		err = fmt.Errorf("not a JSON object")
	}
	return nil, fmt.Errorf("ai-service returned non-json content: %w", err)
}

func mustMarshal(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
