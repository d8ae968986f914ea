package services

import "errors"

var (
	ErrInvalidCredentials   = errors.New("Invalid credentials for Admin Terminal")
	ErrAlreadyAuthenticated = errors.New("already signed in; log out to switch role")
	ErrNotAuthenticated     = errors.New("not signed in")
	ErrRoleNotOffered       = errors.New("role is not offered on this login surface")
	ErrInvalidPlan          = errors.New("plan is not offered to this role")
	ErrForbidden            = errors.New("action not allowed for this role")
	ErrServiceDisabled      = errors.New("service is disabled")
	ErrServiceUnavailable   = errors.New("service is not available in this shell")
	ErrUpgradeRequired      = errors.New("service requires a plan upgrade")
	ErrFlagProtected        = errors.New("the Admin Dashboard flag cannot be turned off")
	ErrUnknownPost          = errors.New("unknown post")
	ErrUnknownInquiry       = errors.New("unknown inquiry")
	ErrNoFeed               = errors.New("service has no feed")
	ErrSearchInFlight       = errors.New("a search is already running")
	ErrAnalysisInFlight     = errors.New("an analysis is already running")
	ErrNoImages             = errors.New("at least one image is required")
	ErrBusy                 = errors.New("too many requests in flight")
	ErrNoChat               = errors.New("no chat is open")
	ErrEmptyMessage         = errors.New("message text is required")
	ErrUnknownStore         = errors.New("unknown store")
	ErrUnknownAutomation    = errors.New("unknown automation profile")
	ErrInvalidAutomation    = errors.New("invalid automation profile")
	ErrUnknownSetting       = errors.New("unknown notification setting")
)
