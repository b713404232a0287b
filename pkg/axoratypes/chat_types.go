// Package axoratypes defines the shared data types for Axora Enigma.
// This file contains the core types for chat sessions, messages, and
// attachments as they are persisted and exchanged between components.
package axoratypes

import "time"

// Role identifies the author of a message.
type Role string

// Message roles. User input is "user"; generated replies are "model";
// synthetic annotations use "system".
const (
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	RoleSystem Role = "system"
)

// MessageType classifies the payload of a message.
type MessageType string

// Message types. Error-shaped responses flow through the same message
// pipeline as regular ones, tagged MessageTypeError.
const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeError MessageType = "error"
)

// Attachment is a binary payload carried by a message, such as an uploaded
// file or a generated image. Data holds the base64-encoded bytes.
type Attachment struct {
	Type string `json:"type"` // MIME type, e.g. "image/png"
	Data string `json:"data"` // base64-encoded payload
	Name string `json:"name"`
}

// Message is a single entry in a conversation. Messages are immutable once
// appended and are owned exclusively by their parent session.
type Message struct {
	ID          string       `json:"id"`
	Role        Role         `json:"role"`
	Content     string       `json:"content"`
	Type        MessageType  `json:"type"`
	Timestamp   int64        `json:"timestamp"` // milliseconds since epoch
	Attachments []Attachment `json:"attachments,omitempty"`
	Grounding   Grounding    `json:"groundingMetadata,omitempty"`
}

// Time returns the message timestamp as a time.Time in UTC.
func (m Message) Time() time.Time {
	return time.UnixMilli(m.Timestamp).UTC()
}

// ChatSession is one persisted conversation. Identity is the ID; the store
// holds at most one session per ID. LastModified is stamped on every
// persisted mutation and drives the retention window.
type ChatSession struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	LastModified int64     `json:"lastModified"` // milliseconds since epoch
	Messages     []Message `json:"messages"`
	ModeID       string    `json:"modeId"`
	ProjectID    string    `json:"projectId,omitempty"`
}

// ModifiedTime returns the last-modified timestamp as a time.Time in UTC.
func (s ChatSession) ModifiedTime() time.Time {
	return time.UnixMilli(s.LastModified).UTC()
}
