package entity

// Reminder - generated renewal reminder, at most one per subscription ID
type Reminder struct {
	Subscription Subscription
	Message      string
}
