// Package llm implements reminder.Generator on top of text-generation backends.
package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"subs_dashboard/internal/reminder"
)

var ErrEmptyResponse = errors.New("model returned an empty response")

const systemPrompt = `You are a helpful assistant that generates personalized subscription renewal reminders.
Return only minified JSON in one line: {"reminderMessage":string}. No comments. No markdown.`

// BuildPrompt renders the user prompt of a request
func BuildPrompt(req reminder.Request) string {
	return fmt.Sprintf(`Subscription Name: %s
Renewal Date: %s
Cost: %.2f

Generate a friendly reminder message to be sent to the user, including the subscription name, renewal date, and cost. The message should be tailored for delivery via %s.`,
		req.SubscriptionName,
		req.RenewalDate,
		req.Cost,
		req.DeliveryMethod,
	)
}

// parseResponse accepts the JSON object the prompt asks for and falls back to
// the raw text when the model ignored the format
func parseResponse(text string) (reminder.Response, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return reminder.Response{}, ErrEmptyResponse
	}

	var out reminder.Response
	if strings.HasPrefix(text, "{") {
		if err := json.Unmarshal([]byte(text), &out); err != nil {
			return reminder.Response{}, fmt.Errorf("decode model output: %w", err)
		}
		if strings.TrimSpace(out.ReminderMessage) == "" {
			return reminder.Response{}, ErrEmptyResponse
		}
		return out, nil
	}
	return reminder.Response{ReminderMessage: text}, nil
}
