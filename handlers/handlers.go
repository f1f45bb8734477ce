package handlers

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"reaction-ledger/bot"
	"reaction-ledger/utils"
)

// Register all handlers to the bot.
func Register(b *bot.Bot) {
	b.Session.AddHandler(MessageCreate(b))
	b.Session.AddHandler(MessageReactionAdd(b))
	b.Session.AddHandler(MessageReactionRemove(b))
	b.Session.AddHandler(InteractionCreate(b))

	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v (%v), watching channel %v", r.User.Username, r.User.ID, b.Scope.ChannelID)
		b.Health.SetServing(true)
		utils.Info("Gateway", "Ready", "Logged in as "+r.User.Username)
	})
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Resumed) {
		b.Health.SetServing(true)
	})
	b.Session.AddHandler(func(s *discordgo.Session, d *discordgo.Disconnect) {
		log.Println("Gateway disconnected.")
		b.Health.SetServing(false)
	})
}
