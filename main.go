package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"reaction-ledger/bot"
	"reaction-ledger/channel"
	"reaction-ledger/command"
	"reaction-ledger/config"
	"reaction-ledger/database"
	"reaction-ledger/grpc"
	"reaction-ledger/handlers"
	"reaction-ledger/jobs"
	"reaction-ledger/metrics"
	"reaction-ledger/sheets"
	"reaction-ledger/store"
	"reaction-ledger/tally"
	"reaction-ledger/utils"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	loc, err := settings.Location()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	messages, tallies, closeStores, err := openStores(context.Background(), settings)
	if err != nil {
		log.Fatalf("Error opening stores: %v", err)
	}
	defer closeStores()

	cache := tally.NewCache()
	m, err := metrics.New(prometheus.DefaultRegisterer, cache.Len)
	if err != nil {
		log.Fatalf("Error registering metrics: %v", err)
	}

	status, err := database.NewStatusManager(settings.StatusFile)
	if err != nil {
		log.Fatalf("Error loading job status: %v", err)
	}

	b, err := bot.NewBot(settings.Token, settings.Scope)
	if err != nil {
		log.Fatalf("Error initializing bot: %v", err)
	}
	b.Location = loc
	b.Cache = cache
	b.Metrics = m
	b.Auth = utils.NewAuth(settings.Auth)
	b.Recorder = jobs.NewRecorder(messages, m)
	utils.InitLogger(b.Session, settings.AdminChannelID)

	clock := utils.SystemClock{Location: loc}
	reconciler := jobs.NewReconciler(messages, channel.NewDiscordFetcher(b.Session), clock, jobs.ReconcilerConfig{
		ChannelID:   settings.Scope.ChannelID,
		DayOffset:   settings.DayOffset,
		Concurrency: settings.Concurrency,
	}, m)
	flusher := jobs.NewFlusher(cache, tallies, clock, m)

	b.Scheduler, err = bot.NewScheduler(bot.ScheduleConfig{
		Reconcile: settings.Schedule.Reconcile,
		Flush:     settings.Schedule.Flush,
		Location:  loc,
	}, reconciler, flusher, status)
	if err != nil {
		log.Fatalf("Error configuring scheduler: %v", err)
	}
	b.RegisterCommands(command.All(b.Scheduler, cache))

	if settings.MetricsAddr != "" {
		srv := metrics.NewServer(settings.MetricsAddr, prometheus.DefaultGatherer)
		srv.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Stop(ctx)
		}()
	}

	if settings.HealthAddr != "" {
		b.Health = grpc.NewHealthServer()
		if _, err := b.Health.Start(settings.HealthAddr); err != nil {
			log.Fatalf("Error starting health server: %v", err)
		}
		defer b.Health.Stop()
	}

	if err := b.Run(handlers.Register); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}
}

// openStores builds the message and tally stores for the configured backend.
func openStores(ctx context.Context, s *config.Settings) (store.MessageStore, store.TallyStore, func(), error) {
	switch s.Store.Backend {
	case config.BackendSheets:
		svc, err := sheets.NewService(ctx, sheets.Credentials{
			ServiceAccountEmail: s.Google.ServiceAccountEmail,
			PrivateKey:          s.Google.PrivateKey,
			CredentialsFile:     s.Google.CredentialsFile,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		log.Printf("Using Google Sheets store (messages %s, reactions %s)", s.Google.SpreadsheetID, s.Google.ReactionSpreadsheetID)
		return sheets.NewMessageSheet(svc, s.Google.SpreadsheetID),
			sheets.NewTallySheet(svc, s.Google.ReactionSpreadsheetID),
			func() {}, nil

	case config.BackendSQLite:
		messages, err := database.NewMessageDB(s.Store.MessageDB)
		if err != nil {
			return nil, nil, nil, err
		}
		tallies, err := database.NewTallyDB(s.Store.TallyDB)
		if err != nil {
			messages.Close()
			return nil, nil, nil, err
		}
		return messages, tallies, func() {
			messages.Close()
			tallies.Close()
		}, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown store backend %q", s.Store.Backend)
}
