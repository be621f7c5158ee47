package repository

import (
	"context"

	"github.com/yukikurage/standup-api/internal/database"
	"github.com/yukikurage/standup-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStandupRepository is a GORM implementation of StandupRepository
type GormStandupRepository struct {
	db *gorm.DB
}

// NewStandupRepository creates a new StandupRepository
func NewStandupRepository(db *gorm.DB) StandupRepository {
	return &GormStandupRepository{db: db}
}

// Upsert creates or replaces a user's entry for a board and day
func (r *GormStandupRepository) Upsert(ctx context.Context, standup *models.Standup) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "board_id"}, {Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"yesterday", "today", "blockers", "updated_at"}),
		}).
		Create(standup).Error
}

// FindForDay finds a user's entry for a board and day
func (r *GormStandupRepository) FindForDay(ctx context.Context, boardID uint64, userID, date string) (*models.Standup, error) {
	var standup models.Standup
	if err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ? AND date = ?", boardID, userID, date).
		First(&standup).Error; err != nil {
		return nil, err
	}
	return &standup, nil
}

// List retrieves standups with filtering and pagination
func (r *GormStandupRepository) List(ctx context.Context, filter StandupFilter) ([]models.Standup, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Standup{}).Where("board_id = ?", filter.BoardID)

	if filter.Date != "" {
		query = query.Where("date = ?", filter.Date)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("date DESC, created_at ASC")
	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	}

	var standups []models.Standup
	if err := listQuery.Find(&standups).Error; err != nil {
		return nil, 0, err
	}

	return standups, total, nil
}

// DeleteByBoard removes every standup of a board
func (r *GormStandupRepository) DeleteByBoard(ctx context.Context, boardID uint64) error {
	return r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Delete(&models.Standup{}).Error
}
