package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/standup-api/internal/database"
	"github.com/yukikurage/standup-api/internal/identity"
	"github.com/yukikurage/standup-api/internal/models"
	"github.com/yukikurage/standup-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.MigrateDatabase(db))
	return db
}

func createTestBoard(t *testing.T, store repository.Store, collaborators ...models.Collaborator) *models.Board {
	t.Helper()

	board := &models.Board{Name: "Platform"}
	require.NoError(t, store.Boards().Create(context.Background(), board))
	for i := range collaborators {
		collaborators[i].BoardID = board.ID
	}
	require.NoError(t, store.Collaborators().CreateBatch(context.Background(), collaborators))
	return board
}

// fakeProfiles serves profiles from memory and counts lookups.
type fakeProfiles struct {
	mu      sync.Mutex
	calls   []string
	failFor map[string]bool
}

func (f *fakeProfiles) GetUserByID(ctx context.Context, userID string) (*identity.UserProfile, error) {
	f.mu.Lock()
	f.calls = append(f.calls, userID)
	f.mu.Unlock()

	if f.failFor[userID] {
		return nil, errors.New("provider returned 500")
	}
	return &identity.UserProfile{
		ID:           userID,
		PrimaryEmail: userID + "@example.com",
		DisplayName:  "User " + userID,
	}, nil
}

func (f *fakeProfiles) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// writeCounts tallies collaborator writes. failUpdate, when set, is returned
// by UpdateRole instead of writing.
type writeCounts struct {
	total   atomic.Int64
	deletes atomic.Int64
	inserts atomic.Int64
	updates atomic.Int64

	failUpdate error
}

// countingStore records collaborator writes made through it and through any
// transaction it opens.
type countingStore struct {
	repository.Store
	counts *writeCounts
}

func newCountingStore(inner repository.Store) *countingStore {
	return &countingStore{Store: inner, counts: &writeCounts{}}
}

func (s *countingStore) Collaborators() repository.CollaboratorRepository {
	return &countingCollaborators{CollaboratorRepository: s.Store.Collaborators(), counts: s.counts}
}

func (s *countingStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.Transaction(ctx, func(tx repository.Store) error {
		return fn(&countingStore{Store: tx, counts: s.counts})
	})
}

type countingCollaborators struct {
	repository.CollaboratorRepository
	counts *writeCounts
}

func (c *countingCollaborators) CreateBatch(ctx context.Context, collaborators []models.Collaborator) error {
	c.counts.total.Add(1)
	c.counts.inserts.Add(1)
	return c.CollaboratorRepository.CreateBatch(ctx, collaborators)
}

func (c *countingCollaborators) UpdateRole(ctx context.Context, boardID uint64, userID string, role models.BoardRole) error {
	c.counts.total.Add(1)
	c.counts.updates.Add(1)
	if c.counts.failUpdate != nil {
		return c.counts.failUpdate
	}
	return c.CollaboratorRepository.UpdateRole(ctx, boardID, userID, role)
}

func (c *countingCollaborators) DeleteUsers(ctx context.Context, boardID uint64, userIDs []string) error {
	c.counts.total.Add(1)
	c.counts.deletes.Add(1)
	return c.CollaboratorRepository.DeleteUsers(ctx, boardID, userIDs)
}
