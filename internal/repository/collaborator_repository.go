package repository

import (
	"context"

	"github.com/yukikurage/standup-api/internal/models"
	"gorm.io/gorm"
)

// GormCollaboratorRepository is a GORM implementation of CollaboratorRepository
type GormCollaboratorRepository struct {
	db *gorm.DB
}

// NewCollaboratorRepository creates a new CollaboratorRepository
func NewCollaboratorRepository(db *gorm.DB) CollaboratorRepository {
	return &GormCollaboratorRepository{db: db}
}

// ListByBoard lists the collaborators of a board ordered by join time
func (r *GormCollaboratorRepository) ListByBoard(ctx context.Context, boardID uint64) ([]models.Collaborator, error) {
	var collaborators []models.Collaborator
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("created_at, user_id").
		Find(&collaborators).Error; err != nil {
		return nil, err
	}
	return collaborators, nil
}

// ListByUser lists all board memberships of a user
func (r *GormCollaboratorRepository) ListByUser(ctx context.Context, userID string) ([]models.Collaborator, error) {
	var collaborators []models.Collaborator
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("board_id").
		Find(&collaborators).Error; err != nil {
		return nil, err
	}
	return collaborators, nil
}

// Find finds a specific collaborator
func (r *GormCollaboratorRepository) Find(ctx context.Context, boardID uint64, userID string) (*models.Collaborator, error) {
	var collaborator models.Collaborator
	if err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&collaborator).Error; err != nil {
		return nil, err
	}
	return &collaborator, nil
}

// CountByRole counts the collaborators of a board holding role
func (r *GormCollaboratorRepository) CountByRole(ctx context.Context, boardID uint64, role models.BoardRole) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Collaborator{}).
		Where("board_id = ? AND role = ?", boardID, role).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateBatch inserts collaborators in one statement
func (r *GormCollaboratorRepository) CreateBatch(ctx context.Context, collaborators []models.Collaborator) error {
	if len(collaborators) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&collaborators).Error
}

// UpdateRole changes the role of one collaborator; updated_at is refreshed by GORM
func (r *GormCollaboratorRepository) UpdateRole(ctx context.Context, boardID uint64, userID string, role models.BoardRole) error {
	return r.db.WithContext(ctx).
		Model(&models.Collaborator{}).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Update("role", role).Error
}

// DeleteUsers removes the given users from a board in one statement
func (r *GormCollaboratorRepository) DeleteUsers(ctx context.Context, boardID uint64, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("board_id = ? AND user_id IN ?", boardID, userIDs).
		Delete(&models.Collaborator{}).Error
}

// DeleteByBoard removes every collaborator of a board
func (r *GormCollaboratorRepository) DeleteByBoard(ctx context.Context, boardID uint64) error {
	return r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Delete(&models.Collaborator{}).Error
}
