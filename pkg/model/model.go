// Package model talks to the external language-model service. Every call is a
// single attempt: there are no retries and no streaming.
package model

import (
	"context"
	"errors"

	"tableflip.dev/journally/pkg/entry"
)

const (
	// SystemInstruction frames every request.
	SystemInstruction = "You are a helpful AI journaling assistant. Keep things personal and encouraging."
	DefaultModel       = "gpt-3.5-turbo"
	DefaultGeminiModel = "gemini-1.5-flash"
	DefaultTemperature = float32(0.7)
)

var (
	// ErrMissingCredential means no API key is configured. It is an ordinary
	// call failure, never a reason to stop the process.
	ErrMissingCredential = errors.New("model: no API credential configured")
	// ErrEmptyReply means the service answered without any text.
	ErrEmptyReply = errors.New("model: empty reply")
)

// Message is one {role, content} pair sent to the service.
type Message struct {
	Role    entry.Speaker
	Content string
}

// Request is a full completion request.
type Request struct {
	System      string
	Messages    []Message
	Model       string
	Temperature float32
}

// Client is the narrow boundary to the external service.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// FromTurns converts a transcript into request messages, preserving order.
func FromTurns(turns []entry.Turn) []Message {
	out := make([]Message, 0, len(turns))
	for _, t := range turns {
		out = append(out, Message{Role: t.Speaker, Content: t.Text})
	}
	return out
}
