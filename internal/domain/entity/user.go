// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is the core account entity. It represents any platform actor:
// a regular customer, a listing agent, or an administrator.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"passwordHash" json:"-"` // Never serialized out.
	Role         Role          `bson:"role" json:"role"`
	Name         string        `bson:"name" json:"name"`
	Phone        string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      string        `bson:"address,omitempty" json:"address,omitempty"`
	ProfileImage string        `bson:"profileImage,omitempty" json:"profileImage,omitempty"`

	// AgentProfile is nil unless Role is RoleAgent.
	AgentProfile *AgentProfile `bson:"agentProfile,omitempty" json:"agentProfile,omitempty"`

	// CustomerProfile is nil unless Role is RoleUser.
	CustomerProfile *CustomerProfile `bson:"customerProfile,omitempty" json:"customerProfile,omitempty"`

	EmailVerified     bool           `bson:"emailVerified" json:"emailVerified"`
	EmailVerification *SecurityToken `bson:"emailVerification,omitempty" json:"-"`
	PasswordReset     *SecurityToken `bson:"passwordReset,omitempty" json:"-"`

	// IsActive is the soft-delete flag. Deactivated accounts are never
	// physically removed.
	IsActive    bool       `bson:"isActive" json:"isActive"`
	LastLoginAt *time.Time `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// AgentProfile holds data specific to the listing-agent role.
type AgentProfile struct {
	// AgentID is the sequential public identifier, e.g. "AG0001". It is
	// assigned exactly once at creation time from an atomic counter.
	AgentID         string   `bson:"agentId" json:"agentId"`
	Specializations []string `bson:"specializations,omitempty" json:"specializations,omitempty"`
	ExperienceYears int      `bson:"experienceYears" json:"experienceYears"`
	Commission      float64  `bson:"commission" json:"commission"`
}

// CustomerProfile holds data specific to the regular-customer role.
type CustomerProfile struct {
	PropertiesViewed   int  `bson:"propertiesViewed" json:"propertiesViewed"`
	PropertiesOwned    int  `bson:"propertiesOwned" json:"propertiesOwned"`
	PropertiesInvested int  `bson:"propertiesInvested" json:"propertiesInvested"`
	Available          bool `bson:"available" json:"available"`
}

// SecurityToken is a single-use token with an expiry, used for email
// verification and password resets. It is cleared on successful use.
type SecurityToken struct {
	Token     string    `bson:"token" json:"-"`
	ExpiresAt time.Time `bson:"expiresAt" json:"-"`
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *SecurityToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IsAgent reports whether the account carries the agent role.
func (u *User) IsAgent() bool {
	return u.Role == RoleAgent
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
