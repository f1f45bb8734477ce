package handlers

import (
	"github.com/bwmarrin/discordgo"

	"reaction-ledger/bot"
)

// InteractionCreate handles slash command interactions.
func InteractionCreate(b *bot.Bot) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type == discordgo.InteractionApplicationCommand {
			CommandDispatcher(b, s, i)
		}
	}
}

// CommandDispatcher performs the permission check and hands the interaction to its command.
func CommandDispatcher(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	cmd, ok := b.Commands[i.ApplicationCommandData().Name]
	if !ok {
		respond(s, i, "🚫 Internal error: unknown command.")
		return
	}

	if cmd.RequiresOperator() && (b.Auth == nil || !b.Auth.CanOperate(i)) {
		respond(s, i, "🚫 You are not allowed to run this command.")
		return
	}

	cmd.Handle(s, i)
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
