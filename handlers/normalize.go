package handlers

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"reaction-ledger/models"
)

// NormalizeMessage turns a gateway message into a record. It reports false for
// messages outside scope and for messages written by bots.
func NormalizeMessage(scope models.Scope, loc *time.Location, m *discordgo.MessageCreate) (models.MessageRecord, bool) {
	if m == nil || m.Message == nil || m.Author == nil {
		return models.MessageRecord{}, false
	}
	if !scope.Contains(m.GuildID, m.ChannelID) || m.Author.Bot {
		return models.MessageRecord{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	posted := m.Timestamp.In(loc)
	return models.MessageRecord{
		ID:         m.ID,
		PostDate:   models.DateOf(posted),
		PostTime:   models.FormatClock(posted),
		AuthorName: m.Author.Username,
		Text:       m.Content,
	}, true
}

// NormalizeReaction turns a reaction add or remove into a tally event.
// delta is models.DeltaAdd or models.DeltaRemove.
func NormalizeReaction(scope models.Scope, r *discordgo.MessageReaction, userName string, delta int) (models.ReactionEvent, bool) {
	if r == nil || !scope.Contains(r.GuildID, r.ChannelID) {
		return models.ReactionEvent{}, false
	}
	return models.ReactionEvent{
		UserID:   r.UserID,
		UserName: userName,
		Emoji:    r.Emoji.Name,
		Delta:    delta,
	}, true
}
