package models

import (
	"fmt"
	"strings"
)

// Role is the fixed account type of a session.
type Role string

const (
	RoleImporter Role = "IMPORTER"
	RoleMerchant Role = "MERCHANT"
	RoleAdmin    Role = "ADMIN"
	RoleTeam     Role = "TEAM"
)

// Roles lists every role in display order.
var Roles = []Role{RoleImporter, RoleMerchant, RoleAdmin, RoleTeam}

// ParseRole accepts a role name in any letter case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleImporter, RoleMerchant, RoleAdmin, RoleTeam:
		return true
	}
	return false
}

// Staff reports whether the role signs in through the admin terminal.
func (r Role) Staff() bool { return r == RoleAdmin || r == RoleTeam }

// Channel is the login surface a role lands on after signing in.
func (r Role) Channel() Channel {
	if r.Staff() {
		return ChannelAdmin
	}
	return ChannelPublic
}

// Channel is the login surface shown while signed out.
type Channel string

const (
	ChannelPublic Channel = "PUBLIC"
	ChannelAdmin  Channel = "ADMIN"
)

func (c Channel) Valid() bool { return c == ChannelPublic || c == ChannelAdmin }

// Toggle returns the other surface.
func (c Channel) Toggle() Channel {
	if c == ChannelAdmin {
		return ChannelPublic
	}
	return ChannelAdmin
}

// Offers reports whether the surface lets a user pick the role.
func (c Channel) Offers(r Role) bool {
	if c == ChannelAdmin {
		return r.Staff()
	}
	return r == RoleImporter || r == RoleMerchant || r == RoleAdmin
}
