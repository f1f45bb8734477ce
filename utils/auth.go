package utils

import (
	"slices"

	"reaction-ledger/models"

	"github.com/bwmarrin/discordgo"
)

// Auth provides methods for authorization checks.
type Auth struct {
	config models.AuthConfig
}

// NewAuth creates a new Auth instance with the loaded configuration.
func NewAuth(config models.AuthConfig) *Auth {
	return &Auth{config: config}
}

// IsDeveloper checks if a user is a developer.
func (a *Auth) IsDeveloper(userID string) bool {
	return slices.Contains(a.config.Developers, userID)
}

// IsAdmin checks if a member has an admin role.
func (a *Auth) IsAdmin(member *discordgo.Member) bool {
	if member == nil {
		return false
	}
	for _, roleID := range member.Roles {
		if slices.Contains(a.config.AdminRoles, roleID) {
			return true
		}
	}
	return false
}

// CanOperate reports whether the interaction's author may run operator commands.
func (a *Auth) CanOperate(i *discordgo.InteractionCreate) bool {
	if i.Member != nil {
		return a.IsDeveloper(i.Member.User.ID) || a.IsAdmin(i.Member)
	}
	if i.User != nil {
		return a.IsDeveloper(i.User.ID)
	}
	return false
}
