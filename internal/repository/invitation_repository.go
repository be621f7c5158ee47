package repository

import (
	"context"
	"time"

	"github.com/yukikurage/standup-api/internal/database"
	"github.com/yukikurage/standup-api/internal/models"
	"gorm.io/gorm"
)

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create creates a new invitation
func (r *GormInvitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	return r.db.WithContext(ctx).Omit("Board").Create(invitation).Error
}

// FindActive finds the most recent active invitation of a board
func (r *GormInvitationRepository) FindActive(ctx context.Context, boardID uint64, now time.Time) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.WithContext(ctx).
		Scopes(database.ActiveInvitations(boardID, now)).
		Order("created_at DESC").
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindByToken finds an invitation by token with its board preloaded
func (r *GormInvitationRepository) FindByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.WithContext(ctx).
		Preload("Board").
		Where("token = ?", token).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindByID finds an invitation scoped to a board
func (r *GormInvitationRepository) FindByID(ctx context.Context, id string, boardID uint64) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.WithContext(ctx).
		Where("id = ? AND board_id = ?", id, boardID).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// RevokePending marks every pending invitation of a board as revoked
func (r *GormInvitationRepository) RevokePending(ctx context.Context, boardID uint64, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("board_id = ? AND status = ?", boardID, models.InvitationPending).
		Updates(map[string]interface{}{
			"status":     models.InvitationRevoked,
			"revoked_at": now,
		})
	return result.RowsAffected, result.Error
}

// MarkUsed consumes a pending invitation
func (r *GormInvitationRepository) MarkUsed(ctx context.Context, id string, userID string, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ? AND status = ?", id, models.InvitationPending).
		Updates(map[string]interface{}{
			"status":          models.InvitationUsed,
			"used_at":         now,
			"used_by_user_id": userID,
		})
	return result.RowsAffected, result.Error
}

// UpdateExpiration sets a new expiry on an invitation scoped to a board
func (r *GormInvitationRepository) UpdateExpiration(ctx context.Context, id string, boardID uint64, expiresAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ? AND board_id = ?", id, boardID).
		Update("expires_at", expiresAt)
	return result.RowsAffected, result.Error
}

// DeleteByBoard removes every invitation of a board
func (r *GormInvitationRepository) DeleteByBoard(ctx context.Context, boardID uint64) error {
	return r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Delete(&models.Invitation{}).Error
}
