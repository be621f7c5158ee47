package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/standup-api/internal/logger"
	"github.com/yukikurage/standup-api/internal/models"
	"github.com/yukikurage/standup-api/internal/repository"
)

// BoardService provides business logic for board operations.
type BoardService struct {
	store repository.Store
}

// NewBoardService creates a new BoardService.
func NewBoardService(store repository.Store) *BoardService {
	return &BoardService{store: store}
}

// CreateBoardInput represents parameters to create a new board.
type CreateBoardInput struct {
	Name        string
	Description string
	CreatorID   string
}

// BoardMembership is a board together with the caller's role on it.
type BoardMembership struct {
	Board models.Board
	Role  models.BoardRole
}

// Create creates a board and makes its creator the first admin.
func (s *BoardService) Create(ctx context.Context, input CreateBoardInput) (*models.Board, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidBoardName
	}
	if input.CreatorID == "" {
		return nil, ErrMissingUserID
	}

	board := &models.Board{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Boards().Create(ctx, board); err != nil {
			return err
		}
		return tx.Collaborators().CreateBatch(ctx, []models.Collaborator{{
			BoardID: board.ID,
			UserID:  input.CreatorID,
			Role:    models.RoleAdmin,
		}})
	})
	if err != nil {
		return nil, txError("create board", err)
	}

	logger.Info().Uint64("board_id", board.ID).Str("user_id", input.CreatorID).Msg("board created")
	return board, nil
}

// ListForUser returns the boards userID collaborates on.
func (s *BoardService) ListForUser(ctx context.Context, userID string) ([]BoardMembership, error) {
	memberships, err := s.store.Collaborators().ListByUser(ctx, userID)
	if err != nil {
		return nil, storageError("list memberships", err)
	}
	if len(memberships) == 0 {
		return []BoardMembership{}, nil
	}

	ids := make([]uint64, 0, len(memberships))
	roles := make(map[uint64]models.BoardRole, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.BoardID)
		roles[m.BoardID] = m.Role
	}

	boards, err := s.store.Boards().FindByIDs(ctx, ids)
	if err != nil {
		return nil, storageError("list boards", err)
	}

	result := make([]BoardMembership, 0, len(boards))
	for _, b := range boards {
		result = append(result, BoardMembership{Board: b, Role: roles[b.ID]})
	}
	return result, nil
}

// Get returns a board by ID.
func (s *BoardService) Get(ctx context.Context, boardID uint64) (*models.Board, error) {
	board, err := s.store.Boards().FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, storageError("find board", err)
	}
	return board, nil
}

// UpdateBoardInput holds optional board fields to change.
type UpdateBoardInput struct {
	Name        *string
	Description *string
}

// Update changes a board's name or description.
func (s *BoardService) Update(ctx context.Context, boardID uint64, input UpdateBoardInput) (*models.Board, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, ErrInvalidBoardName
	}

	var board *models.Board
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		board, err = tx.Boards().LockByID(ctx, boardID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBoardNotFound
			}
			return err
		}

		if input.Name != nil {
			board.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			board.Description = strings.TrimSpace(*input.Description)
		}
		return tx.Boards().Update(ctx, board)
	})
	if err != nil {
		return nil, txError("update board", err)
	}
	return board, nil
}

// Delete removes a board with its collaborators, invitations and standups.
func (s *BoardService) Delete(ctx context.Context, boardID uint64) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := lockBoard(ctx, tx, boardID); err != nil {
			return err
		}
		if err := tx.Invitations().DeleteByBoard(ctx, boardID); err != nil {
			return err
		}
		if err := tx.Standups().DeleteByBoard(ctx, boardID); err != nil {
			return err
		}
		if err := tx.Collaborators().DeleteByBoard(ctx, boardID); err != nil {
			return err
		}
		return tx.Boards().Delete(ctx, boardID)
	})
	if err != nil {
		return txError("delete board", err)
	}

	logger.Info().Uint64("board_id", boardID).Msg("board deleted")
	return nil
}
