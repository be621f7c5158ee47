package constants

import "time"

// Session and context keys
const (
	SessionCookieName      = "standup_session"
	ContextKeyUserID       = "user_id"
	ContextKeyBoard        = "board"
	ContextKeyCollaborator = "board_collaborator"
	ContextKeyRequestID    = "request_id"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Invitations
const (
	DefaultInvitationTTL = 7 * 24 * time.Hour
	InvitationTokenBytes = 32
)

// Standups
const (
	StandupDateLayout   = "2006-01-02"
	MaxStandupFieldSize = 4000
)
