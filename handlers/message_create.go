package handlers

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"reaction-ledger/bot"
	"reaction-ledger/utils"
)

// MessageCreate records every in-scope post. Store failures are reported, not retried.
func MessageCreate(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		rec, ok := NormalizeMessage(b.Scope, b.Location, m)
		b.Metrics.Event("message", ok)
		if !ok {
			return
		}

		if err := b.Recorder.Record(context.Background(), rec); err != nil {
			utils.Error("Recorder", "Insert", fmt.Sprintf("message %s by %s: %v", rec.ID, rec.AuthorName, err))
		}
	}
}
