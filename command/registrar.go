package command

import (
	"github.com/bwmarrin/discordgo"

	"reaction-ledger/bot"
)

// DefaultTallyLimit caps the lines shown by /reaction-tally.
const DefaultTallyLimit = 25

// All returns every command wired to its dependencies.
func All(sched Jobs, tally TallyViewer) []bot.Command {
	return []bot.Command{
		&SyncCommand{Jobs: sched},
		&FlushCommand{Jobs: sched},
		&TallyCommand{Tally: tally, Limit: DefaultTallyLimit},
	}
}

// GetCommandDefinitions returns a slice of all command definitions.
func GetCommandDefinitions(commands []bot.Command) []*discordgo.ApplicationCommand {
	defs := make([]*discordgo.ApplicationCommand, len(commands))
	for i, cmd := range commands {
		defs[i] = cmd.Definition()
	}
	return defs
}
