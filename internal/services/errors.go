package services

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these onto HTTP statuses with errors.Is; every
// specific error below wraps exactly one kind.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrUpstream     = errors.New("upstream failure")
	ErrStorage      = errors.New("storage failure")
)

var (
	ErrBoardNotFound         = newError(ErrNotFound, "board not found")
	ErrInvalidBoardName      = newError(ErrValidation, "board name cannot be empty")
	ErrCollaboratorNotFound  = newError(ErrNotFound, "collaborator not found")
	ErrDuplicateCollaborator = newError(ErrValidation, "user listed more than once")
	ErrInvalidRole           = newError(ErrValidation, "role must be admin or collaborator")
	ErrMissingUserID         = newError(ErrValidation, "user id is required")
	ErrLastAdmin             = newError(ErrInvalidState, "a board must keep at least one admin")

	ErrInvitationNotFound    = newError(ErrNotFound, "invitation not found")
	ErrInvitationExpired     = newError(ErrInvalidState, "invitation has expired")
	ErrInvitationRevoked     = newError(ErrInvalidState, "invitation has been revoked")
	ErrInvitationUsed        = newError(ErrInvalidState, "invitation has already been used")
	ErrAlreadyCollaborator   = newError(ErrConflict, "user is already a collaborator of this board")
	ErrInvalidExpiresIn      = newError(ErrValidation, "expires_in must look like 24h, 7d, 2w or 1m")
	ErrTokenGenerationFailed = errors.New("failed to generate invitation token")

	ErrInvalidStandupDate = newError(ErrValidation, "date must be formatted as YYYY-MM-DD")
	ErrStandupTooLong     = newError(ErrValidation, "standup field is too long")
	ErrEmptyStandup       = newError(ErrValidation, "standup cannot be empty")
	ErrNoStandups         = newError(ErrNotFound, "no standups submitted for this day")
	ErrAIUnavailable      = errors.New("AI service is not configured")
)

// domainError carries a client-facing message and the kind it belongs to.
type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &domainError{kind: kind, msg: msg}
}

func storageError(action string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", action, ErrStorage, err)
}

func upstreamError(action string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", action, ErrUpstream, err)
}
