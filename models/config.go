package models

// Scope is the guild/channel pair the bot listens to. Events outside it are ignored.
type Scope struct {
	GuildID   string `mapstructure:"guild_id"`
	ChannelID string `mapstructure:"channel_id"`
}

// Contains reports whether the given guild and channel are inside the scope.
func (s Scope) Contains(guildID, channelID string) bool {
	return guildID == s.GuildID && channelID == s.ChannelID
}

// AuthConfig lists who may run the operator commands.
type AuthConfig struct {
	Developers []string `mapstructure:"developers"`
	AdminRoles []string `mapstructure:"admin_roles"`
}
