package contact

import "context"

// Submission is the payload handed to a Sender once local validation passes.
// Contacts holds only the selected channels.
type Submission struct {
	Name     string             `json:"name"`
	Message  string             `json:"message"`
	Channels []Channel          `json:"channels"`
	Contacts map[Channel]string `json:"contacts"`
}

// Sender delivers a submission. A nil error means the receiving side
// accepted it for delivery ("queued"); anything else is a failure.
type Sender interface {
	Send(ctx context.Context, sub Submission) error
}

// SenderFunc adapts a plain function to Sender.
type SenderFunc func(ctx context.Context, sub Submission) error

func (f SenderFunc) Send(ctx context.Context, sub Submission) error { return f(ctx, sub) }

// Localizer supplies the user-facing status lines.
type Localizer interface {
	Success() string
	Failure() string
	MissingFields() string
	MissingContact(ch Channel) string
}

type plainMessages struct{}

func (plainMessages) Success() string { return "Message sent! I will get back to you soon." }
func (plainMessages) Failure() string {
	return "Failed to send the message. Please try again later."
}
func (plainMessages) MissingFields() string { return "Please fill in all required fields" }
func (plainMessages) MissingContact(ch Channel) string {
	return "Please provide a contact for channel " + ch.String()
}
