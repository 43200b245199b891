package chat

import "time"

// Inbound is the structured payload a client sends over the chat socket.
// Receiver is optional: a payload without a receiver is an ephemeral echo
// request and is never persisted.
type Inbound struct {
	Message  string  `json:"message"`
	Receiver *string `json:"receiver,omitempty"`
}

// Envelope is the wire shape of a persisted message, sent both to the sender
// (confirmation echo) and to the receiver when connected. Both peers receive
// byte-identical payloads carrying the same id and timestamp.
type Envelope struct {
	ID                     string    `json:"id"`
	Sender                 string    `json:"sender"`
	Receiver               string    `json:"receiver"`
	Text                   string    `json:"text"`
	Timestamp              time.Time `json:"timestamp"`
	SenderName             string    `json:"sender_name"`
	ReceiverName           string    `json:"receiver_name"`
	SenderProfilePicture   *string   `json:"sender_profile_picture"`
	ReceiverProfilePicture *string   `json:"receiver_profile_picture"`
}

// ErrorEnvelope reports a per-message failure inline without closing the
// connection.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

// EchoEnvelope acknowledges a receiver-less payload. Nothing is stored, so
// it carries neither id nor timestamp.
type EchoEnvelope struct {
	Message string `json:"message"`
}
