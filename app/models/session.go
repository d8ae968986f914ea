package models

// SessionState is who is using a device and as what.
type SessionState struct {
	LoggedIn bool            `json:"logged_in"`
	Role     Role            `json:"role"`
	Channel  Channel         `json:"channel"`
	Importer ImporterProfile `json:"importer"`
	Merchant MerchantProfile `json:"merchant"`
	Admin    AdminProfile    `json:"admin"`
}

// DefaultSessionState is the state of a device seen for the first time.
func DefaultSessionState() SessionState {
	return SessionState{
		Role:     RoleImporter,
		Channel:  ChannelPublic,
		Importer: DefaultImporterProfile(),
		Merchant: DefaultMerchantProfile(),
		Admin:    DefaultAdminProfile(),
	}
}

// Plan is the subscription tier of the active role. Staff roles have none.
func (s SessionState) Plan() Plan {
	switch s.Role {
	case RoleImporter:
		return s.Importer.Plan
	case RoleMerchant:
		return s.Merchant.Plan
	}
	return ""
}

// Identity is the name and avatar of the active role's profile.
func (s SessionState) Identity() Identity {
	switch s.Role {
	case RoleMerchant:
		return Identity{Name: s.Merchant.Name, Avatar: s.Merchant.Avatar}
	case RoleAdmin, RoleTeam:
		return Identity{Name: s.Admin.Name, Avatar: s.Admin.Avatar}
	}
	return Identity{Name: s.Importer.Name, Avatar: s.Importer.Avatar}
}

// Public strips secrets before the state leaves the server.
func (s SessionState) Public() SessionState {
	s.Admin.PasswordHash = ""
	return s
}
