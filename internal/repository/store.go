package repository

import (
	"context"

	"gorm.io/gorm"
)

// GormStore is a GORM implementation of Store
type GormStore struct {
	db *gorm.DB
}

// NewStore creates a new Store backed by db
func NewStore(db *gorm.DB) Store {
	return &GormStore{db: db}
}

func (s *GormStore) Boards() BoardRepository {
	return NewBoardRepository(s.db)
}

func (s *GormStore) Collaborators() CollaboratorRepository {
	return NewCollaboratorRepository(s.db)
}

func (s *GormStore) Invitations() InvitationRepository {
	return NewInvitationRepository(s.db)
}

func (s *GormStore) Standups() StandupRepository {
	return NewStandupRepository(s.db)
}

// Transaction runs fn with a Store bound to a single transaction
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
