package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/standup-api/internal/constants"
	"github.com/yukikurage/standup-api/internal/logger"
	"github.com/yukikurage/standup-api/internal/models"
	"github.com/yukikurage/standup-api/internal/repository"
	"github.com/yukikurage/standup-api/internal/utils"
)

// StandupService records and summarizes daily standups.
type StandupService struct {
	store repository.Store
	ai    Summarizer
	now   func() time.Time
}

// NewStandupService creates a new StandupService. ai may be nil when no model
// is configured; Digest then returns ErrAIUnavailable.
func NewStandupService(store repository.Store, ai Summarizer) *StandupService {
	return &StandupService{
		store: store,
		ai:    ai,
		now:   time.Now,
	}
}

// SubmitStandupInput holds one user's standup for a day.
type SubmitStandupInput struct {
	BoardID   uint64
	UserID    string
	Date      string
	Yesterday string
	Today     string
	Blockers  string
}

// resolveDate validates date or defaults it to today in UTC.
func (s *StandupService) resolveDate(date string) (string, error) {
	if date == "" {
		return s.now().UTC().Format(constants.StandupDateLayout), nil
	}
	if _, err := time.Parse(constants.StandupDateLayout, date); err != nil {
		return "", ErrInvalidStandupDate
	}
	return date, nil
}

// Submit creates or replaces the caller's entry for the day.
func (s *StandupService) Submit(ctx context.Context, input SubmitStandupInput) (*models.Standup, error) {
	date, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, err
	}

	fields := []*string{&input.Yesterday, &input.Today, &input.Blockers}
	empty := true
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
		if len(*f) > constants.MaxStandupFieldSize {
			return nil, ErrStandupTooLong
		}
		if *f != "" {
			empty = false
		}
	}
	if empty {
		return nil, ErrEmptyStandup
	}

	standup := &models.Standup{
		BoardID:   input.BoardID,
		UserID:    input.UserID,
		Date:      date,
		Yesterday: input.Yesterday,
		Today:     input.Today,
		Blockers:  input.Blockers,
	}
	if err := s.store.Standups().Upsert(ctx, standup); err != nil {
		return nil, storageError("save standup", err)
	}

	saved, err := s.store.Standups().FindForDay(ctx, input.BoardID, input.UserID, date)
	if err != nil {
		return nil, storageError("reload standup", err)
	}

	logger.Debug().Uint64("board_id", input.BoardID).Str("user_id", input.UserID).Str("date", date).Msg("standup submitted")
	return saved, nil
}

// ListStandupsInput holds filters for listing standups.
type ListStandupsInput struct {
	BoardID    uint64
	Date       string
	UserID     string
	Pagination utils.PaginationParams
}

// List returns a page of standups and the total count.
func (s *StandupService) List(ctx context.Context, input ListStandupsInput) ([]models.Standup, int64, error) {
	if input.Date != "" {
		if _, err := time.Parse(constants.StandupDateLayout, input.Date); err != nil {
			return nil, 0, ErrInvalidStandupDate
		}
	}

	standups, total, err := s.store.Standups().List(ctx, repository.StandupFilter{
		BoardID:    input.BoardID,
		Date:       input.Date,
		UserID:     input.UserID,
		Pagination: &input.Pagination,
	})
	if err != nil {
		return nil, 0, storageError("list standups", err)
	}
	return standups, total, nil
}

// StandupDigest is a model-written summary of one board's day.
type StandupDigest struct {
	BoardID uint64 `json:"board_id"`
	Date    string `json:"date"`
	Entries int    `json:"entries"`
	Summary string `json:"summary"`
}

// Digest summarizes every standup of a board for date, today by default.
func (s *StandupService) Digest(ctx context.Context, boardID uint64, date string) (*StandupDigest, error) {
	if s.ai == nil {
		return nil, ErrAIUnavailable
	}

	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	board, err := s.store.Boards().FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, storageError("find board", err)
	}

	standups, _, err := s.store.Standups().List(ctx, repository.StandupFilter{BoardID: boardID, Date: date})
	if err != nil {
		return nil, storageError("list standups", err)
	}
	if len(standups) == 0 {
		return nil, ErrNoStandups
	}

	summary, err := s.ai.SummarizeStandups(ctx, board.Name, date, standups)
	if err != nil {
		return nil, upstreamError("summarize standups", err)
	}
	return &StandupDigest{
		BoardID: boardID,
		Date:    date,
		Entries: len(standups),
		Summary: summary,
	}, nil
}
