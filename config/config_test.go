package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reaction-ledger/models"
)

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return dir
}

func setRequired(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DISCORD_GUILD_ID", "guild")
	t.Setenv("DISCORD_CHANNEL_ID", "chan")
}

func TestLoad_Defaults(t *testing.T) {
	setup(t)
	setRequired(t)

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", s.Token)
	assert.Equal(t, models.Scope{GuildID: "guild", ChannelID: "chan"}, s.Scope)
	assert.Equal(t, BackendSQLite, s.Store.Backend)
	assert.Equal(t, "./data/messages.db", s.Store.MessageDB)
	assert.Equal(t, "0 0 0 * * *", s.Schedule.Reconcile)
	assert.Equal(t, "0 0 0 1 * *", s.Schedule.Flush)
	assert.Equal(t, 2, s.DayOffset)
	assert.Equal(t, 4, s.Concurrency)
	assert.Equal(t, ":9090", s.MetricsAddr)
	assert.Empty(t, s.HealthAddr)
}

func TestLoad_ConfigFileAndEnvOverride(t *testing.T) {
	dir := setup(t)
	yaml := `
discord:
  token: from-file
  guild_id: guild
  channel_id: chan
bot:
  timezone: Asia/Tokyo
reconcile:
  day_offset: 1
commands:
  auth:
    developers: ["dev1"]
    admin_roles: ["role1", "role2"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	t.Setenv("DISCORD_TOKEN", "from-env")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", s.Token)
	assert.Equal(t, 1, s.DayOffset)
	assert.Equal(t, []string{"dev1"}, s.Auth.Developers)
	assert.Equal(t, []string{"role1", "role2"}, s.Auth.AdminRoles)

	loc, err := s.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestLoad_MissingRequired(t *testing.T) {
	setup(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord.token is required")
	assert.Contains(t, err.Error(), "discord.guild_id is required")
	assert.Contains(t, err.Error(), "discord.channel_id is required")
}

func TestValidate(t *testing.T) {
	valid := func() *Settings {
		return &Settings{
			Token:       "token",
			Scope:       models.Scope{GuildID: "g", ChannelID: "c"},
			Timezone:    "UTC",
			Store:       StoreSettings{Backend: BackendSQLite, MessageDB: "m.db", TallyDB: "t.db"},
			DayOffset:   2,
			Concurrency: 4,
		}
	}

	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr string
	}{
		{name: "valid", mutate: func(s *Settings) {}},
		{name: "unknown backend", mutate: func(s *Settings) { s.Store.Backend = "redis" }, wantErr: "unknown store.backend"},
		{name: "sheets without ids", mutate: func(s *Settings) { s.Store.Backend = BackendSheets }, wantErr: "google.spreadsheet_id is required"},
		{
			name: "sheets with credentials file",
			mutate: func(s *Settings) {
				s.Store.Backend = BackendSheets
				s.Google = GoogleSettings{SpreadsheetID: "a", ReactionSpreadsheetID: "b", CredentialsFile: "sa.json"}
			},
		},
		{
			name: "sheets without credentials",
			mutate: func(s *Settings) {
				s.Store.Backend = BackendSheets
				s.Google = GoogleSettings{SpreadsheetID: "a", ReactionSpreadsheetID: "b", ServiceAccountEmail: "sa@example.com"}
			},
			wantErr: "google.credentials_file",
		},
		{name: "negative offset", mutate: func(s *Settings) { s.DayOffset = -1 }, wantErr: "day_offset"},
		{name: "zero concurrency", mutate: func(s *Settings) { s.Concurrency = 0 }, wantErr: "concurrency"},
		{name: "bad timezone", mutate: func(s *Settings) { s.Timezone = "Mars/Olympus" }, wantErr: "bot.timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
