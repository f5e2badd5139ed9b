// File: internal/assistant/service_test.go
package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_Respond_ScriptedReplies(t *testing.T) {
	service := NewService(zap.NewNop())

	cases := []struct {
		input string
		want  string
	}{
		{"hello", "goodbye"},
		{"Hello", "goodbye"},
		{"  HELLO!!  ", "goodbye"},
		{"how are you", "i'm fine"},
		{"How are you?", "i'm fine"},
		{"how   are   you", "i'm fine"},
		{"bye", "bye bye"},
		{"Bye.", "bye bye"},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			reply, err := service.Respond(context.Background(), tc.input)
			require.NoError(t, err)
			assert.True(t, reply.Scripted)
			assert.Equal(t, tc.want, reply.Message)
		})
	}
}

func TestService_Respond_EchoFallback(t *testing.T) {
	service := NewService(zap.NewNop())

	reply, err := service.Respond(context.Background(), "is the penthouse still available?")

	require.NoError(t, err)
	assert.False(t, reply.Scripted)
	assert.Contains(t, reply.Message, "You said: is the penthouse still available?")
	assert.Contains(t, reply.Message, `"hello"`)
	assert.Contains(t, reply.Message, `"how are you"`)
	assert.Contains(t, reply.Message, `"bye"`)
}

func TestService_Respond_EmptyAfterNormalization(t *testing.T) {
	service := NewService(zap.NewNop())

	for _, input := range []string{"", "   ", "?!?..."} {
		_, err := service.Respond(context.Background(), input)
		require.Error(t, err, "input %q should be rejected", input)
	}
}
