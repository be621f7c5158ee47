package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yukikurage/standup-api/internal/constants"
	"github.com/yukikurage/standup-api/internal/logger"
	"github.com/yukikurage/standup-api/internal/metrics"
	"github.com/yukikurage/standup-api/internal/models"
	"github.com/yukikurage/standup-api/internal/repository"
	"github.com/yukikurage/standup-api/internal/utils"
)

// InvitationService manages the shareable invitation of each board. A board
// has at most one active invitation: pending and not yet expired.
// Invitations are single use; accepting one marks it used.
type InvitationService struct {
	store         repository.Store
	now           func() time.Time
	generateToken func() (string, error)
}

// InvitationOption customizes an InvitationService.
type InvitationOption func(*InvitationService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) InvitationOption {
	return func(s *InvitationService) {
		s.now = now
	}
}

// WithTokenGenerator overrides the invitation token source.
func WithTokenGenerator(gen func() (string, error)) InvitationOption {
	return func(s *InvitationService) {
		s.generateToken = gen
	}
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(store repository.Store, opts ...InvitationOption) *InvitationService {
	s := &InvitationService{
		store:         store,
		now:           time.Now,
		generateToken: utils.GenerateInvitationToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InvitationService) clock() time.Time {
	return s.now().UTC()
}

func lockBoard(ctx context.Context, tx repository.Store, boardID uint64) error {
	if _, err := tx.Boards().LockByID(ctx, boardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoardNotFound
		}
		return err
	}
	return nil
}

func (s *InvitationService) mint(ctx context.Context, tx repository.Store, boardID uint64, inviterUserID string, role models.BoardRole, expiresAt time.Time) (*models.Invitation, error) {
	token, err := s.generateToken()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenGenerationFailed, err)
	}

	invitation := &models.Invitation{
		BoardID:       boardID,
		InviterUserID: inviterUserID,
		Token:         token,
		Role:          role,
		Status:        models.InvitationPending,
		ExpiresAt:     expiresAt,
	}
	if err := tx.Invitations().Create(ctx, invitation); err != nil {
		return nil, err
	}
	return invitation, nil
}

func revokedEvent(boardID uint64, n int64) {
	if n == 0 {
		return
	}
	metrics.InvitationEvents.WithLabelValues("revoked").Add(float64(n))
	logger.Info().Uint64("board_id", boardID).Int64("count", n).Msg("invitations revoked")
}

// Ensure returns the board's active invitation, creating one with the
// collaborator role and the default lifetime when none exists. The read and
// the insert share one transaction holding the board row lock.
func (s *InvitationService) Ensure(ctx context.Context, boardID uint64, inviterUserID string) (*models.Invitation, error) {
	ctx, span := tracer.Start(ctx, "InvitationService.Ensure")
	defer span.End()
	span.SetAttributes(attribute.Int64("board.id", int64(boardID)))

	now := s.clock()
	var (
		invitation *models.Invitation
		minted     bool
		revoked    int64
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := lockBoard(ctx, tx, boardID); err != nil {
			return err
		}

		active, err := tx.Invitations().FindActive(ctx, boardID, now)
		if err == nil {
			invitation = active
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Expired rows can still be pending; retire them so the board keeps a
		// single pending invitation.
		if revoked, err = tx.Invitations().RevokePending(ctx, boardID, now); err != nil {
			return err
		}

		invitation, err = s.mint(ctx, tx, boardID, inviterUserID, models.RoleCollaborator, now.Add(constants.DefaultInvitationTTL))
		minted = err == nil
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, txError("ensure invitation", err)
	}

	revokedEvent(boardID, revoked)
	if minted {
		metrics.InvitationEvents.WithLabelValues("minted").Inc()
		logger.Info().Uint64("board_id", boardID).Str("invitation_id", invitation.ID).Msg("invitation minted")
	}
	return invitation, nil
}

// Regenerate revokes every pending invitation of the board and mints a new
// one with role and an expiry of expiresIn from now.
func (s *InvitationService) Regenerate(ctx context.Context, boardID uint64, inviterUserID string, role models.BoardRole, expiresIn string) (*models.Invitation, error) {
	ctx, span := tracer.Start(ctx, "InvitationService.Regenerate")
	defer span.End()
	span.SetAttributes(attribute.Int64("board.id", int64(boardID)))

	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	now := s.clock()
	expiresAt, err := utils.ExpiresAt(expiresIn, now)
	if err != nil {
		return nil, ErrInvalidExpiresIn
	}

	var (
		invitation *models.Invitation
		revoked    int64
	)
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := lockBoard(ctx, tx, boardID); err != nil {
			return err
		}

		var err error
		if revoked, err = tx.Invitations().RevokePending(ctx, boardID, now); err != nil {
			return err
		}

		invitation, err = s.mint(ctx, tx, boardID, inviterUserID, role, expiresAt)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, txError("regenerate invitation", err)
	}

	revokedEvent(boardID, revoked)
	metrics.InvitationEvents.WithLabelValues("minted").Inc()
	logger.Info().
		Uint64("board_id", boardID).
		Str("invitation_id", invitation.ID).
		Str("role", string(role)).
		Time("expires_at", expiresAt).
		Msg("invitation regenerated")

	return invitation, nil
}

// Get returns the board's active invitation without creating one.
func (s *InvitationService) Get(ctx context.Context, boardID uint64) (*models.Invitation, error) {
	invitation, err := s.store.Invitations().FindActive(ctx, boardID, s.clock())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, storageError("find invitation", err)
	}
	return invitation, nil
}

// findByToken looks an invitation up by exact token. Some collations compare
// case-insensitively, so the match is re-checked here.
func findByToken(ctx context.Context, store repository.Store, token string) (*models.Invitation, error) {
	if token == "" {
		return nil, ErrInvitationNotFound
	}

	invitation, err := store.Invitations().FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	if invitation.Token != token {
		return nil, ErrInvitationNotFound
	}
	return invitation, nil
}

// GetByToken returns the invitation for token with its board loaded. It never
// changes state; callers inspect Status and ExpiresAt themselves.
func (s *InvitationService) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	invitation, err := findByToken(ctx, s.store, token)
	if err != nil {
		return nil, txError("find invitation", err)
	}
	return invitation, nil
}

func checkRedeemable(invitation *models.Invitation, now time.Time) error {
	switch invitation.Status {
	case models.InvitationRevoked:
		return ErrInvitationRevoked
	case models.InvitationUsed:
		return ErrInvitationUsed
	}
	if invitation.IsExpired(now) {
		return ErrInvitationExpired
	}
	return nil
}

// Accept enrolls userID on the invitation's board with the invitation role
// and consumes the invitation.
func (s *InvitationService) Accept(ctx context.Context, token, userID string) (*models.Invitation, error) {
	ctx, span := tracer.Start(ctx, "InvitationService.Accept")
	defer span.End()

	if userID == "" {
		return nil, ErrMissingUserID
	}

	now := s.clock()
	var invitation *models.Invitation
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		invitation, err = findByToken(ctx, tx, token)
		if err != nil {
			return err
		}
		span.SetAttributes(attribute.Int64("board.id", int64(invitation.BoardID)))

		if err := lockBoard(ctx, tx, invitation.BoardID); err != nil {
			return err
		}
		if err := checkRedeemable(invitation, now); err != nil {
			return err
		}

		if _, err := tx.Collaborators().Find(ctx, invitation.BoardID, userID); err == nil {
			return ErrAlreadyCollaborator
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Collaborators().CreateBatch(ctx, []models.Collaborator{{
			BoardID: invitation.BoardID,
			UserID:  userID,
			Role:    invitation.Role,
		}}); err != nil {
			return err
		}

		n, err := tx.Invitations().MarkUsed(ctx, invitation.ID, userID, now)
		if err != nil {
			return err
		}
		if n == 0 {
			// Consumed or revoked by a concurrent request after it was read.
			return ErrInvitationUsed
		}

		invitation.Status = models.InvitationUsed
		invitation.UsedAt = &now
		invitation.UsedByUserID = &userID
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, txError("accept invitation", err)
	}

	metrics.InvitationEvents.WithLabelValues("accepted").Inc()
	metrics.CollaboratorChanges.WithLabelValues("insert").Inc()
	logger.Info().
		Uint64("board_id", invitation.BoardID).
		Str("invitation_id", invitation.ID).
		Str("user_id", userID).
		Msg("invitation accepted")

	return invitation, nil
}

// UpdateExpiration moves the expiry of invitation id on boardID to expiresIn
// from now. It never creates an invitation.
func (s *InvitationService) UpdateExpiration(ctx context.Context, id string, boardID uint64, expiresIn string) (*models.Invitation, error) {
	now := s.clock()
	expiresAt, err := utils.ExpiresAt(expiresIn, now)
	if err != nil {
		return nil, ErrInvalidExpiresIn
	}

	var invitation *models.Invitation
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Invitations().FindByID(ctx, id, boardID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvitationNotFound
			}
			return err
		}

		if _, err := tx.Invitations().UpdateExpiration(ctx, id, boardID, expiresAt); err != nil {
			return err
		}

		var err error
		invitation, err = tx.Invitations().FindByID(ctx, id, boardID)
		return err
	})
	if err != nil {
		return nil, txError("update invitation expiration", err)
	}

	metrics.InvitationEvents.WithLabelValues("extended").Inc()
	logger.Info().
		Uint64("board_id", boardID).
		Str("invitation_id", id).
		Time("expires_at", expiresAt).
		Msg("invitation expiration updated")

	return invitation, nil
}

// RevokeActives revokes every pending invitation of the board. Revoking
// nothing is not an error.
func (s *InvitationService) RevokeActives(ctx context.Context, boardID uint64) error {
	n, err := s.store.Invitations().RevokePending(ctx, boardID, s.clock())
	if err != nil {
		return storageError("revoke invitations", err)
	}
	revokedEvent(boardID, n)
	return nil
}
