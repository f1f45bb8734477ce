package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata" // zone database for minimal container images

	multierror "github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"reaction-ledger/models"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendSheets = "sheets"
)

// Settings is the typed view of the configuration.
type Settings struct {
	Token          string
	Scope          models.Scope
	AdminChannelID string
	Timezone       string

	Store    StoreSettings
	Google   GoogleSettings
	Schedule ScheduleSettings

	DayOffset   int
	Concurrency int

	MetricsAddr string
	HealthAddr  string
	StatusFile  string

	Auth models.AuthConfig
}

// StoreSettings selects and configures the durable store.
type StoreSettings struct {
	Backend   string
	MessageDB string
	TallyDB   string
}

// GoogleSettings configures the Sheets backend.
type GoogleSettings struct {
	SpreadsheetID         string
	ReactionSpreadsheetID string
	ServiceAccountEmail   string
	PrivateKey            string
	CredentialsFile       string
}

// ScheduleSettings holds cron specs with a leading seconds field.
type ScheduleSettings struct {
	Reconcile string
	Flush     string
}

// Location resolves the configured time zone.
func (s *Settings) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid bot.timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

func setDefaults() {
	viper.SetDefault("bot.timezone", "Local")
	viper.SetDefault("store.backend", BackendSQLite)
	viper.SetDefault("store.sqlite.message_db", "./data/messages.db")
	viper.SetDefault("store.sqlite.tally_db", "./data/reactions.db")
	viper.SetDefault("schedule.reconcile", "0 0 0 * * *")
	viper.SetDefault("schedule.flush", "0 0 0 1 * *")
	viper.SetDefault("reconcile.day_offset", 2)
	viper.SetDefault("reconcile.concurrency", 4)
	viper.SetDefault("metrics.addr", ":9090")
	viper.SetDefault("grpc.health_addr", "")
	viper.SetDefault("status.file", "./data/status.json")
}

// LoadConfig 从 .env 文件和 config.yaml 加载配置。
// 环境变量会覆盖配置文件中的同名设置，例如 DISCORD_TOKEN 对应 discord.token。
func LoadConfig() {
	// 1. 从 .env 文件加载环境变量，如果文件不存在则忽略。
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, skipping.")
	}

	// 2. 设置并读取基础配置文件 (config.yaml)。
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("No config.yaml found, using environment variables and defaults.")
		} else {
			panic(fmt.Errorf("fatal error in config file: %w", err))
		}
	}
}

// Load reads the configuration and validates it.
func Load() (*Settings, error) {
	LoadConfig()

	s := &Settings{
		Token: viper.GetString("discord.token"),
		Scope: models.Scope{
			GuildID:   viper.GetString("discord.guild_id"),
			ChannelID: viper.GetString("discord.channel_id"),
		},
		AdminChannelID: viper.GetString("bot.admin_channel_id"),
		Timezone:       viper.GetString("bot.timezone"),
		Store: StoreSettings{
			Backend:   strings.ToLower(viper.GetString("store.backend")),
			MessageDB: viper.GetString("store.sqlite.message_db"),
			TallyDB:   viper.GetString("store.sqlite.tally_db"),
		},
		Google: GoogleSettings{
			SpreadsheetID:         viper.GetString("google.spreadsheet_id"),
			ReactionSpreadsheetID: viper.GetString("google.spreadsheet_reaction_id"),
			ServiceAccountEmail:   viper.GetString("google.service_account_email"),
			PrivateKey:            viper.GetString("google.private_key"),
			CredentialsFile:       viper.GetString("google.credentials_file"),
		},
		Schedule: ScheduleSettings{
			Reconcile: viper.GetString("schedule.reconcile"),
			Flush:     viper.GetString("schedule.flush"),
		},
		DayOffset:   viper.GetInt("reconcile.day_offset"),
		Concurrency: viper.GetInt("reconcile.concurrency"),
		MetricsAddr: viper.GetString("metrics.addr"),
		HealthAddr:  viper.GetString("grpc.health_addr"),
		StatusFile:  viper.GetString("status.file"),
		Auth: models.AuthConfig{
			Developers: viper.GetStringSlice("commands.auth.developers"),
			AdminRoles: viper.GetStringSlice("commands.auth.admin_roles"),
		},
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate reports every missing or inconsistent setting at once.
func (s *Settings) Validate() error {
	var errs *multierror.Error
	require := func(value, key string) {
		if value == "" {
			errs = multierror.Append(errs, fmt.Errorf("%s is required", key))
		}
	}

	require(s.Token, "discord.token")
	require(s.Scope.GuildID, "discord.guild_id")
	require(s.Scope.ChannelID, "discord.channel_id")

	switch s.Store.Backend {
	case BackendSQLite:
		require(s.Store.MessageDB, "store.sqlite.message_db")
		require(s.Store.TallyDB, "store.sqlite.tally_db")
	case BackendSheets:
		require(s.Google.SpreadsheetID, "google.spreadsheet_id")
		require(s.Google.ReactionSpreadsheetID, "google.spreadsheet_reaction_id")
		if s.Google.CredentialsFile == "" && (s.Google.ServiceAccountEmail == "" || s.Google.PrivateKey == "") {
			errs = multierror.Append(errs, errors.New("google.credentials_file or google.service_account_email and google.private_key are required"))
		}
	default:
		errs = multierror.Append(errs, fmt.Errorf("unknown store.backend %q", s.Store.Backend))
	}

	if s.DayOffset < 0 {
		errs = multierror.Append(errs, fmt.Errorf("reconcile.day_offset must not be negative, got %d", s.DayOffset))
	}
	if s.Concurrency < 1 {
		errs = multierror.Append(errs, fmt.Errorf("reconcile.concurrency must be at least 1, got %d", s.Concurrency))
	}
	if _, err := s.Location(); err != nil {
		errs = multierror.Append(errs, err)
	}

	return errs.ErrorOrNil()
}
