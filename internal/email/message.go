// Package email renders and delivers transactional email through Mailpit.
package email

// Message is one outbound email. HTML is the rendered body; the sender is
// filled in by the delivery client.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Recipient is the mailpit send API address shape, used for From, To, Cc,
// and ReplyTo.
type Recipient struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

// sendRequest is the mailpit POST /api/v1/send body.
type sendRequest struct {
	From    Recipient   `json:"From"`
	To      []Recipient `json:"To"`
	Subject string      `json:"Subject,omitempty"`
	HTML    string      `json:"HTML,omitempty"`
}
