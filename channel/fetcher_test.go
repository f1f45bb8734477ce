package channel

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestIsGone(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unknown message code",
			err:  &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMessage}},
			want: true,
		},
		{
			name: "unknown channel code",
			err:  &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownChannel}},
			want: true,
		},
		{
			name: "plain 404",
			err:  &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}},
			want: true,
		},
		{
			name: "wrapped 404",
			err:  fmt.Errorf("fetch: %w", &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}),
			want: true,
		},
		{
			name: "rate limited",
			err:  &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusTooManyRequests}},
			want: false,
		},
		{
			name: "network error",
			err:  errors.New("connection reset"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGone(tt.err))
		})
	}
}

func TestLiveMessageOf(t *testing.T) {
	msg := &discordgo.Message{
		ID: "42",
		Reactions: []*discordgo.MessageReactions{
			{Count: 3, Emoji: &discordgo.Emoji{Name: "👍"}},
			{Count: 1, Emoji: &discordgo.Emoji{Name: "👎"}},
			{Count: 7, Emoji: nil},
		},
	}

	live := LiveMessageOf(msg)
	assert.Equal(t, "42", live.ID)
	assert.Equal(t, 3, live.Count("👍"))
	assert.Equal(t, 1, live.Count("👎"))
	assert.Equal(t, 0, live.Count("🎉"))
}
