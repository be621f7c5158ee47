package repository

import (
	"context"

	"github.com/yukikurage/standup-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// Create creates a new board
func (r *GormBoardRepository) Create(ctx context.Context, board *models.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

// FindByID finds a board by ID
func (r *GormBoardRepository) FindByID(ctx context.Context, id uint64) (*models.Board, error) {
	var board models.Board
	if err := r.db.WithContext(ctx).First(&board, id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindByIDs finds all boards with the given IDs
func (r *GormBoardRepository) FindByIDs(ctx context.Context, ids []uint64) ([]models.Board, error) {
	if len(ids) == 0 {
		return []models.Board{}, nil
	}

	var boards []models.Board
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// LockByID reads a board with SELECT ... FOR UPDATE
func (r *GormBoardRepository) LockByID(ctx context.Context, id uint64) (*models.Board, error) {
	var board models.Board
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&board, id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// Update updates a board
func (r *GormBoardRepository) Update(ctx context.Context, board *models.Board) error {
	return r.db.WithContext(ctx).Save(board).Error
}

// Delete soft deletes a board
func (r *GormBoardRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.Board{}, id).Error
}
