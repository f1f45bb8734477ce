package command

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"reaction-ledger/jobs"
	"reaction-ledger/models"
	"reaction-ledger/utils"
)

// Jobs is what the operator commands need from the job scheduler. *bot.Scheduler implements it.
type Jobs interface {
	RunReconcile(ctx context.Context) (models.ReconcileReport, error)
	RunFlush(ctx context.Context) models.FlushReport
	// Go runs fn in the background so shutdown cancels and awaits it.
	Go(fn func(ctx context.Context)) bool
}

// TallyViewer exposes the pending tally without draining it.
type TallyViewer interface {
	Snapshot() []models.ReactionTallyEntry
}

const shuttingDown = "⏹️ The bot is shutting down, try again later."

// SyncCommand defines the /reaction-sync command.
type SyncCommand struct {
	Jobs Jobs
}

// Definition returns the application command definition.
func (c *SyncCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "reaction-sync",
		Description: "Reconcile vote counts for the target date now",
	}
}

// RequiresOperator is true: the command writes to the message store.
func (c *SyncCommand) RequiresOperator() bool { return true }

// Handle defers the response and edits it with the run summary.
func (c *SyncCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	deferEphemeral(s, i)
	c.start(func(content string) { editResponse(s, i, content) })
}

func (c *SyncCommand) start(reply func(string)) {
	ok := c.Jobs.Go(func(ctx context.Context) {
		report, err := c.Jobs.RunReconcile(ctx)
		if err != nil {
			reply(fmt.Sprintf("❌ Reconciliation failed: %v", err))
			return
		}
		reply("✅ " + jobs.SummarizeReconcile(report))
	})
	if !ok {
		reply(shuttingDown)
	}
}

// FlushCommand defines the /reaction-flush command.
type FlushCommand struct {
	Jobs Jobs
}

// Definition returns the application command definition.
func (c *FlushCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "reaction-flush",
		Description: "Write the pending reaction tally to the store now",
	}
}

// RequiresOperator is true: the command drains the tally.
func (c *FlushCommand) RequiresOperator() bool { return true }

// Handle defers the response and edits it with the flush summary.
func (c *FlushCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	deferEphemeral(s, i)
	c.start(func(content string) { editResponse(s, i, content) })
}

func (c *FlushCommand) start(reply func(string)) {
	ok := c.Jobs.Go(func(ctx context.Context) {
		report := c.Jobs.RunFlush(ctx)
		prefix := "✅ "
		if report.Err != nil {
			prefix = "⚠️ "
		}
		reply(prefix + jobs.SummarizeFlush(report))
	})
	if !ok {
		reply(shuttingDown)
	}
}

// TallyCommand defines the /reaction-tally command.
type TallyCommand struct {
	Tally TallyViewer
	Limit int
}

// Definition returns the application command definition.
func (c *TallyCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "reaction-tally",
		Description: "Show the reaction tally waiting for the next flush",
	}
}

// RequiresOperator is false: the command is read-only.
func (c *TallyCommand) RequiresOperator() bool { return false }

// Handle replies with the pending tally.
func (c *TallyCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: FormatTally(c.Tally.Snapshot(), c.Limit),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Failed to respond to /reaction-tally: %v", err)
	}
}

// FormatTally lists the entries with the largest counts first, at most limit lines.
func FormatTally(entries []models.ReactionTallyEntry, limit int) string {
	if len(entries) == 0 {
		return "No reactions pending."
	}

	sorted := make([]models.ReactionTallyEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].Count != sorted[b].Count {
			return sorted[a].Count > sorted[b].Count
		}
		if sorted[a].UserName != sorted[b].UserName {
			return sorted[a].UserName < sorted[b].UserName
		}
		return sorted[a].Emoji < sorted[b].Emoji
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "**%d pending entries**\n", len(sorted))
	for n, e := range sorted {
		if limit > 0 && n == limit {
			fmt.Fprintf(&sb, "... and %d more", len(sorted)-limit)
			break
		}
		fmt.Fprintf(&sb, "%s %s: %d\n", e.Emoji, e.UserName, e.Count)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func deferEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		log.Printf("Failed to defer interaction: %v", err)
	}
}

// maxContent is Discord's message length limit, in characters.
const maxContent = 2000

func editResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	content = utils.Truncate(content, maxContent)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		log.Printf("Failed to edit interaction response: %v", err)
	}
}
