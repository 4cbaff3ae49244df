package domain

import "time"

// Request is a finalized support request. Once persisted it is immutable
// except for two designated updates: attaching the operator notification
// message id and recording the answer timestamp.
type Request struct {
	ID          string
	UserID      int64
	FullName    string
	Phone       string
	Category    Category
	Body        string
	SubmittedAt time.Time
	AnsweredAt  *time.Time // nil until an operator reply is relayed
	// OperatorMessageID is the correlation key: the platform message id of
	// the notification sent into the operator channel. nil while the request
	// is persisted but not yet (or never) correlated.
	OperatorMessageID *int
}
