package handlers

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"reaction-ledger/bot"
	"reaction-ledger/models"
	"reaction-ledger/tally"
)

// MessageReactionAdd counts +1 for the reacting user and emoji.
func MessageReactionAdd(b *bot.Bot) func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	return func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		applyReaction(b, s, r.MessageReaction, r.Member, models.DeltaAdd)
	}
}

// MessageReactionRemove counts -1 for the reacting user and emoji.
func MessageReactionRemove(b *bot.Bot) func(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	return func(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
		applyReaction(b, s, r.MessageReaction, nil, models.DeltaRemove)
	}
}

func applyReaction(b *bot.Bot, s *discordgo.Session, r *discordgo.MessageReaction, member *discordgo.Member, delta int) {
	kind := "reaction_add"
	if delta < 0 {
		kind = "reaction_remove"
	}
	// Resolve the name only for in-scope reactions; it may cost a REST call.
	if r == nil || !b.Scope.Contains(r.GuildID, r.ChannelID) {
		b.Metrics.Event(kind, false)
		return
	}

	ev, ok := NormalizeReaction(b.Scope, r, resolveUserName(s, b.Cache, r.GuildID, r.UserID, member), delta)
	b.Metrics.Event(kind, ok)
	if ok {
		b.Cache.ApplyEvent(ev)
	}
}

// resolveUserName prefers the member sent with the event, then a name the tally
// already knows, then the state cache, then the REST API. It falls back to the user id.
func resolveUserName(s *discordgo.Session, known *tally.Cache, guildID, userID string, member *discordgo.Member) string {
	if member != nil && member.User != nil {
		return member.User.Username
	}
	if known != nil {
		if name, ok := known.UserName(userID); ok {
			return name
		}
	}
	if s == nil {
		return userID
	}
	if s.State != nil {
		if m, err := s.State.Member(guildID, userID); err == nil && m.User != nil {
			return m.User.Username
		}
	}
	u, err := s.User(userID)
	if err != nil {
		log.Printf("Failed to resolve user %s: %v", userID, err)
		return userID
	}
	return u.Username
}
