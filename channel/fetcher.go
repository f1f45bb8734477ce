// Package channel exposes the live-channel capabilities the jobs need.
package channel

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"reaction-ledger/models"

	"github.com/bwmarrin/discordgo"
)

// ErrMessageGone means the message was deleted or is no longer retrievable.
var ErrMessageGone = errors.New("message no longer exists")

// Fetcher fetches the current state of a message.
type Fetcher interface {
	FetchMessage(ctx context.Context, channelID, messageID string) (models.LiveMessage, error)
}

// DiscordFetcher fetches messages through a discordgo session.
type DiscordFetcher struct {
	Session *discordgo.Session
}

// NewDiscordFetcher returns a Fetcher backed by s.
func NewDiscordFetcher(s *discordgo.Session) *DiscordFetcher {
	return &DiscordFetcher{Session: s}
}

// FetchMessage requests the message from the REST API.
func (f *DiscordFetcher) FetchMessage(ctx context.Context, channelID, messageID string) (models.LiveMessage, error) {
	msg, err := f.Session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		if IsGone(err) {
			return models.LiveMessage{}, fmt.Errorf("message %s: %w", messageID, ErrMessageGone)
		}
		return models.LiveMessage{}, fmt.Errorf("failed to fetch message %s: %w", messageID, err)
	}
	return LiveMessageOf(msg), nil
}

// IsGone reports whether a REST error means the message cannot be fetched anymore.
func IsGone(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
			return true
		}
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

// LiveMessageOf summarizes the reactions of a fetched message.
func LiveMessageOf(msg *discordgo.Message) models.LiveMessage {
	live := models.LiveMessage{ID: msg.ID, Reactions: make(map[string]int, len(msg.Reactions))}
	for _, r := range msg.Reactions {
		if r == nil || r.Emoji == nil {
			continue
		}
		live.Reactions[r.Emoji.Name] += r.Count
	}
	return live
}
