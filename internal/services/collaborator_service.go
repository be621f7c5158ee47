package services

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/yukikurage/standup-api/internal/logger"
	"github.com/yukikurage/standup-api/internal/metrics"
	"github.com/yukikurage/standup-api/internal/models"
	"github.com/yukikurage/standup-api/internal/repository"
)

var tracer = otel.Tracer("github.com/yukikurage/standup-api/internal/services")

// DesiredCollaborator is one entry of a reconcile target list.
type DesiredCollaborator struct {
	UserID string
	Role   models.BoardRole
}

// collaboratorPlan is the diff between a board's stored collaborators and a
// desired list.
type collaboratorPlan struct {
	deletes []string
	inserts []models.Collaborator
	updates []DesiredCollaborator
}

func (p collaboratorPlan) empty() bool {
	return len(p.deletes) == 0 && len(p.inserts) == 0 && len(p.updates) == 0
}

// planCollaborators partitions current and desired by user ID. Entries present
// on both sides with the same role produce no change.
func planCollaborators(boardID uint64, current []models.Collaborator, desired []DesiredCollaborator) collaboratorPlan {
	currentRoles := make(map[string]models.BoardRole, len(current))
	for _, c := range current {
		currentRoles[c.UserID] = c.Role
	}
	desiredSet := make(map[string]struct{}, len(desired))
	for _, d := range desired {
		desiredSet[d.UserID] = struct{}{}
	}

	var plan collaboratorPlan
	for _, c := range current {
		if _, ok := desiredSet[c.UserID]; !ok {
			plan.deletes = append(plan.deletes, c.UserID)
		}
	}
	for _, d := range desired {
		role, ok := currentRoles[d.UserID]
		switch {
		case !ok:
			plan.inserts = append(plan.inserts, models.Collaborator{
				BoardID: boardID,
				UserID:  d.UserID,
				Role:    d.Role,
			})
		case role != d.Role:
			plan.updates = append(plan.updates, d)
		}
	}
	return plan
}

// normalizeDesired returns a trimmed copy of desired, rejecting blank IDs,
// unknown roles and users listed twice.
func normalizeDesired(desired []DesiredCollaborator) ([]DesiredCollaborator, error) {
	out := make([]DesiredCollaborator, len(desired))
	seen := make(map[string]struct{}, len(desired))
	for i, d := range desired {
		d.UserID = strings.TrimSpace(d.UserID)
		if d.UserID == "" {
			return nil, ErrMissingUserID
		}
		if !d.Role.Valid() {
			return nil, ErrInvalidRole
		}
		if _, dup := seen[d.UserID]; dup {
			return nil, ErrDuplicateCollaborator
		}
		seen[d.UserID] = struct{}{}
		out[i] = d
	}
	return out, nil
}

// txError passes domain errors through and classifies the rest as storage
// failures.
func txError(action string, err error) error {
	var de *domainError
	if errors.As(err, &de) || errors.Is(err, ErrStorage) || errors.Is(err, ErrTokenGenerationFailed) {
		return err
	}
	return storageError(action, err)
}

// CollaboratorService manages board membership.
type CollaboratorService struct {
	store    repository.Store
	profiles ProfileLookup
}

// NewCollaboratorService creates a new CollaboratorService.
func NewCollaboratorService(store repository.Store, profiles ProfileLookup) *CollaboratorService {
	return &CollaboratorService{
		store:    store,
		profiles: profiles,
	}
}

// Reconcile makes the board's collaborators equal to desired: members missing
// from desired are removed, new ones inserted and changed roles updated, all in
// one transaction. The resulting roster is enriched with provider profiles
// after commit, so an upstream failure leaves the membership change in place.
//
// Reconcile does not protect the last admin of a board; callers enforce that.
func (s *CollaboratorService) Reconcile(ctx context.Context, boardID uint64, desired []DesiredCollaborator) (result []EnrichedCollaborator, err error) {
	ctx, span := tracer.Start(ctx, "CollaboratorService.Reconcile")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.Int64("board.id", int64(boardID)),
		attribute.Int("collaborators.desired", len(desired)),
	)

	desired, err = normalizeDesired(desired)
	if err != nil {
		return nil, err
	}

	var (
		plan    collaboratorPlan
		collabs []models.Collaborator
	)
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := lockBoard(ctx, tx, boardID); err != nil {
			return err
		}

		current, err := tx.Collaborators().ListByBoard(ctx, boardID)
		if err != nil {
			return err
		}

		plan = planCollaborators(boardID, current, desired)
		if len(plan.deletes) > 0 {
			if err := tx.Collaborators().DeleteUsers(ctx, boardID, plan.deletes); err != nil {
				return err
			}
		}
		if len(plan.inserts) > 0 {
			if err := tx.Collaborators().CreateBatch(ctx, plan.inserts); err != nil {
				return err
			}
		}
		for _, u := range plan.updates {
			if err := tx.Collaborators().UpdateRole(ctx, boardID, u.UserID, u.Role); err != nil {
				return err
			}
		}

		collabs, err = tx.Collaborators().ListByBoard(ctx, boardID)
		return err
	})
	if err != nil {
		return nil, txError("reconcile collaborators", err)
	}

	metrics.CollaboratorChanges.WithLabelValues("delete").Add(float64(len(plan.deletes)))
	metrics.CollaboratorChanges.WithLabelValues("insert").Add(float64(len(plan.inserts)))
	metrics.CollaboratorChanges.WithLabelValues("update").Add(float64(len(plan.updates)))
	span.SetAttributes(
		attribute.Int("collaborators.deleted", len(plan.deletes)),
		attribute.Int("collaborators.inserted", len(plan.inserts)),
		attribute.Int("collaborators.updated", len(plan.updates)),
	)

	if plan.empty() {
		logger.Debug().Uint64("board_id", boardID).Msg("collaborators unchanged")
		return enrichCollaborators(ctx, s.profiles, collabs)
	}

	logger.Info().
		Uint64("board_id", boardID).
		Int("deleted", len(plan.deletes)).
		Int("inserted", len(plan.inserts)).
		Int("updated", len(plan.updates)).
		Msg("collaborators reconciled")

	return enrichCollaborators(ctx, s.profiles, collabs)
}

// List returns the board's collaborators with provider profiles.
func (s *CollaboratorService) List(ctx context.Context, boardID uint64) ([]EnrichedCollaborator, error) {
	collabs, err := s.store.Collaborators().ListByBoard(ctx, boardID)
	if err != nil {
		return nil, storageError("list collaborators", err)
	}
	return enrichCollaborators(ctx, s.profiles, collabs)
}

// Find returns one collaborator of a board.
func (s *CollaboratorService) Find(ctx context.Context, boardID uint64, userID string) (*models.Collaborator, error) {
	collab, err := s.store.Collaborators().Find(ctx, boardID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollaboratorNotFound
		}
		return nil, storageError("find collaborator", err)
	}
	return collab, nil
}

// Remove deletes one collaborator from a board. Removing the board's only
// admin fails with ErrLastAdmin; the admin count is read under the board lock.
func (s *CollaboratorService) Remove(ctx context.Context, boardID uint64, userID string) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := lockBoard(ctx, tx, boardID); err != nil {
			return err
		}

		target, err := tx.Collaborators().Find(ctx, boardID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCollaboratorNotFound
			}
			return err
		}

		if target.Role == models.RoleAdmin {
			admins, err := tx.Collaborators().CountByRole(ctx, boardID, models.RoleAdmin)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}
		return tx.Collaborators().DeleteUsers(ctx, boardID, []string{userID})
	})
	if err != nil {
		return txError("remove collaborator", err)
	}

	metrics.CollaboratorChanges.WithLabelValues("delete").Inc()
	logger.Info().Uint64("board_id", boardID).Str("user_id", userID).Msg("collaborator removed")
	return nil
}
