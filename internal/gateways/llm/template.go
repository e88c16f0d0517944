package llm

import (
	"context"
	"fmt"

	"subs_dashboard/internal/entity"
	"subs_dashboard/internal/reminder"
)

// Template phrases reminders locally without any model. Used offline and in tests.
type Template struct {
	formatCost func(float64) string
}

func NewTemplate(options ...func(*Template)) *Template {
	t := &Template{
		formatCost: func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}
	for _, o := range options {
		o(t)
	}
	return t
}

// WithCostFormatter returns an option that sets how the cost is printed.
func WithCostFormatter(f func(float64) string) func(*Template) {
	return func(t *Template) {
		if f != nil {
			t.formatCost = f
		}
	}
}

func (t *Template) GenerateReminder(ctx context.Context, req reminder.Request) (reminder.Response, error) {
	if err := ctx.Err(); err != nil {
		return reminder.Response{}, err
	}
	cost := t.formatCost(req.Cost)

	var msg string
	if req.DeliveryMethod == entity.DeliverySMS {
		msg = fmt.Sprintf("%s renews %s: %s.", req.SubscriptionName, req.RenewalDate, cost)
	} else {
		msg = fmt.Sprintf("Hi! Just a heads-up: your %s subscription renews on %s and %s will be charged. "+
			"If you no longer use it, now is a good time to cancel.", req.SubscriptionName, req.RenewalDate, cost)
	}
	return reminder.Response{ReminderMessage: msg}, nil
}
