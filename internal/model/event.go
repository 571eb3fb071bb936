package model

// Event is the inbound message event the bot host posts to the webhook.
//
// Different hosts deliver different shapes: some put routing in a nested
// message.source object (official webhook style), others put group_id /
// user_id at the top level (OneBot style). Every field is optional; the
// context resolver probes them in priority order and tolerates absence of
// any of them, so the same binary works against either host unmodified.
type Event struct {
	MessageID  string `json:"message_id,omitempty"`
	Time       int64  `json:"time,omitempty"` // unix seconds, as delivered
	SenderID   string `json:"sender_id,omitempty"`
	SenderName string `json:"sender_name,omitempty"`
	GroupID    string `json:"group_id,omitempty"`
	UserID     string `json:"user_id,omitempty"`

	// Message carries the nested routing shape when the host uses one.
	Message *Message `json:"message,omitempty"`

	// Text is the raw command text, e.g. "/checkin".
	Text string `json:"text"`
}

// Message is the nested message envelope some hosts wrap routing info in.
type Message struct {
	Source *Source `json:"source,omitempty"`
}

// Source identifies where a nested-shape message came from.
type Source struct {
	GroupID string `json:"group_id,omitempty"`
	UserID  string `json:"user_id,omitempty"`
}
