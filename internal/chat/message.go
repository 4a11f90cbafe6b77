// Package chat builds chat-style prompts for the sampling API.
package chat

import (
	"errors"
	"fmt"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var ErrEmptyConversation = errors.New("conversation has no messages")

// Message is one turn of a conversation. The same shape is used by the
// training JSONL files, so the JSON tags must stay as they are.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Conversation returns the common system+user pair.
func Conversation(system, user string) []Message {
	msgs := make([]Message, 0, 2)
	if system != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: system})
	}
	return append(msgs, Message{Role: RoleUser, Content: user})
}

// Validate checks roles and that the conversation is not empty.
func Validate(msgs []Message) error {
	if len(msgs) == 0 {
		return ErrEmptyConversation
	}
	for i, m := range msgs {
		if !m.Role.Valid() {
			return fmt.Errorf("message %d: unknown role %q", i, m.Role)
		}
	}
	return nil
}
