package notification

import "context"

// Reason classifies why a send did not happen
type Reason string

const (
	ReasonNotConfigured Reason = "not_configured"
	ReasonSendFailed    Reason = "send_failed"
)

// Message is one outbound email
type Message struct {
	To      string
	Subject string
	Body    string
}

// Result reports the outcome of a send attempt. Sending never returns an
// error to callers: failures are downgraded to a reason plus a human-readable
// warning so the surrounding request can still succeed.
type Result struct {
	Sent    bool
	Reason  Reason
	Warning string
}

// Mailer delivers transactional email
type Mailer interface {
	Send(ctx context.Context, msg Message) Result
}
