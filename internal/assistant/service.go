// File: internal/assistant/service.go
package assistant

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"estatehub_backend/internal/common"

	"go.uber.org/zap"
)

// Reply is the assistant's answer to one message.
type Reply struct {
	Message string `json:"message"`
	// Scripted reports whether the input matched a known phrase, as
	// opposed to the echo fallback.
	Scripted bool `json:"scripted"`
}

// MessageRequest is the inbound chat payload.
type MessageRequest struct {
	Message string `json:"message" binding:"required,max=500"`
}

// scriptedReplies maps normalized inputs to canned answers.
var scriptedReplies = map[string]string{
	"hello":       "goodbye",
	"how are you": "i'm fine",
	"bye":         "bye bye",
}

// Service defines the interface for the scripted assistant.
type Service interface {
	Respond(ctx context.Context, message string) (Reply, error)
}

// ServiceImplementation implements the assistant Service interface.
type ServiceImplementation struct {
	logger *zap.Logger
}

// NewService creates a new assistant service.
func NewService(logger *zap.Logger) Service {
	return &ServiceImplementation{logger: logger}
}

// Respond answers a chat message. Known phrases get their scripted
// reply; anything else is echoed back with a hint listing what the
// assistant understands.
func (s *ServiceImplementation) Respond(ctx context.Context, message string) (Reply, error) {
	normalized := normalize(message)
	if normalized == "" {
		return Reply{}, common.NewBadRequestError("Message cannot be empty.")
	}

	if reply, ok := scriptedReplies[normalized]; ok {
		return Reply{Message: reply, Scripted: true}, nil
	}

	s.logger.Debug("Assistant fallback", zap.String("normalized", normalized))
	return Reply{
		Message: fmt.Sprintf(
			"You said: %s. Try \"hello\", \"how are you\" or \"bye\".", strings.TrimSpace(message)),
	}, nil
}

// normalize lowercases the input, trims whitespace and strips
// punctuation so "Hello!!" matches the "hello" script.
func normalize(message string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(message)) {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
