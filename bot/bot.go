package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/cenkalti/backoff/v4"

	"reaction-ledger/grpc"
	"reaction-ledger/jobs"
	"reaction-ledger/metrics"
	"reaction-ledger/models"
	"reaction-ledger/tally"
	"reaction-ledger/utils"
)

// Command defines the interface for a bot command.
type Command interface {
	Definition() *discordgo.ApplicationCommand
	Handle(s *discordgo.Session, i *discordgo.InteractionCreate)
	// RequiresOperator restricts the command to developers and admin roles.
	RequiresOperator() bool
}

// Bot encapsulates the bot's state.
type Bot struct {
	Session  *discordgo.Session
	Commands map[string]Command

	Scope     models.Scope
	Location  *time.Location
	Cache     *tally.Cache
	Recorder  *jobs.Recorder
	Scheduler *Scheduler
	Metrics   *metrics.Metrics
	Health    *grpc.HealthServer
	Auth      *utils.Auth

	// OpenAttempts bounds the gateway connection retries at startup.
	OpenAttempts uint64
}

// NewBot creates a session for token. The remaining fields are filled in by the caller.
func NewBot(token string, scope models.Scope) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("no bot token provided")
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	return &Bot{
		Session:      dg,
		Commands:     make(map[string]Command),
		Scope:        scope,
		Location:     time.Local,
		OpenAttempts: 5,
	}, nil
}

// RegisterCommands registers the provided commands.
func (b *Bot) RegisterCommands(commands []Command) {
	for _, cmd := range commands {
		b.Commands[cmd.Definition().Name] = cmd
	}
}

// Start registers handlers, opens the gateway and starts the scheduler.
func (b *Bot) Start(registerHandlers func(*Bot)) error {
	registerHandlers(b)

	if err := b.open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	for _, cmd := range b.Commands {
		_, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, b.Scope.GuildID, cmd.Definition())
		if err != nil {
			log.Printf("Cannot create '%v' command: %v", cmd.Definition().Name, err)
		}
	}

	if b.Scheduler != nil {
		b.Scheduler.Start()
	}

	log.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

func (b *Bot) open() error {
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), b.OpenAttempts)
	return backoff.RetryNotify(b.Session.Open, policy, func(err error, next time.Duration) {
		log.Printf("Gateway connection failed: %v. Retrying in %s", err, next.Round(time.Millisecond))
	})
}

// Stop stops the scheduler and closes the session. Pending tally entries are lost.
func (b *Bot) Stop() {
	if b.Scheduler != nil {
		b.Scheduler.Stop()
	}
	b.Health.SetServing(false)
	if b.Session != nil {
		b.Session.Close()
	}
	if b.Cache != nil {
		if n := b.Cache.Len(); n > 0 {
			log.Printf("Discarding %d unflushed tally entries", n)
		}
	}
	log.Println("Bot stopped gracefully.")
}

// Run starts the bot and blocks until SIGINT or SIGTERM.
func (b *Bot) Run(registerHandlers func(*Bot)) error {
	if err := b.Start(registerHandlers); err != nil {
		return err
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	b.Stop()
	return nil
}
