package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/standup-api/internal/database"
	"github.com/yukikurage/standup-api/internal/models"
	"github.com/yukikurage/standup-api/internal/utils"
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

func createBoard(t *testing.T, store Store, name string) *models.Board {
	t.Helper()
	board := &models.Board{Name: name}
	require.NoError(t, store.Boards().Create(context.Background(), board))
	return board
}

func TestCollaboratorRepository_BatchOperations(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))
	board := createBoard(t, store, "Platform")
	repo := store.Collaborators()

	require.NoError(t, repo.CreateBatch(ctx, nil))
	require.NoError(t, repo.CreateBatch(ctx, []models.Collaborator{
		{BoardID: board.ID, UserID: "u1", Role: models.RoleAdmin},
		{BoardID: board.ID, UserID: "u2", Role: models.RoleCollaborator},
		{BoardID: board.ID, UserID: "u3", Role: models.RoleCollaborator},
	}))

	admins, err := repo.CountByRole(ctx, board.ID, models.RoleAdmin)
	require.NoError(t, err)
	require.EqualValues(t, 1, admins)

	require.NoError(t, repo.UpdateRole(ctx, board.ID, "u2", models.RoleAdmin))
	c, err := repo.Find(ctx, board.ID, "u2")
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, c.Role)

	require.NoError(t, repo.DeleteUsers(ctx, board.ID, []string{"u1", "u3"}))
	remaining, err := repo.ListByBoard(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, "u2", remaining[0].UserID)

	_, err = repo.Find(ctx, board.ID, "u1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCollaboratorRepository_ListByUser(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))
	b1 := createBoard(t, store, "One")
	b2 := createBoard(t, store, "Two")

	require.NoError(t, store.Collaborators().CreateBatch(ctx, []models.Collaborator{
		{BoardID: b2.ID, UserID: "u1", Role: models.RoleCollaborator},
		{BoardID: b1.ID, UserID: "u1", Role: models.RoleAdmin},
		{BoardID: b1.ID, UserID: "u2", Role: models.RoleAdmin},
	}))

	memberships, err := store.Collaborators().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, memberships, 2)
	require.Equal(t, b1.ID, memberships[0].BoardID)
	require.Equal(t, b2.ID, memberships[1].BoardID)

	boards, err := store.Boards().FindByIDs(ctx, []uint64{b2.ID, b1.ID})
	require.NoError(t, err)
	require.Len(t, boards, 2)
	require.Equal(t, "One", boards[0].Name)
}

func TestInvitationRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))
	board := createBoard(t, store, "Platform")
	repo := store.Invitations()
	now := time.Now().UTC()

	inv := &models.Invitation{
		BoardID:       board.ID,
		InviterUserID: "admin",
		Token:         "tok-1",
		Role:          models.RoleCollaborator,
		Status:        models.InvitationPending,
		ExpiresAt:     now.Add(time.Hour),
	}
	require.NoError(t, repo.Create(ctx, inv))
	require.NotEmpty(t, inv.ID)

	active, err := repo.FindActive(ctx, board.ID, now)
	require.NoError(t, err)
	require.Equal(t, inv.ID, active.ID)

	byToken, err := repo.FindByToken(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, "Platform", byToken.Board.Name)

	_, err = repo.FindByID(ctx, inv.ID, board.ID+1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Expired but still pending rows are not active.
	_, err = repo.FindActive(ctx, board.ID, now.Add(2*time.Hour))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	n, err := repo.UpdateExpiration(ctx, inv.ID, board.ID, now.Add(48*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	// Extending the expiry makes it active again.
	active, err = repo.FindActive(ctx, board.ID, now.Add(2*time.Hour))
	require.NoError(t, err)
	require.Equal(t, inv.ID, active.ID)

	n, err = repo.MarkUsed(ctx, inv.ID, "joiner", now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	// A consumed invitation cannot be consumed again.
	n, err = repo.MarkUsed(ctx, inv.ID, "other", now)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	used, err := repo.FindByID(ctx, inv.ID, board.ID)
	require.NoError(t, err)
	require.Equal(t, models.InvitationUsed, used.Status)
	require.NotNil(t, used.UsedByUserID)
	require.Equal(t, "joiner", *used.UsedByUserID)
}

func TestInvitationRepository_RevokePending(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))
	board := createBoard(t, store, "Platform")
	repo := store.Invitations()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, &models.Invitation{
		BoardID:       board.ID,
		InviterUserID: "admin",
		Token:         "tok-expired",
		Role:          models.RoleCollaborator,
		Status:        models.InvitationPending,
		ExpiresAt:     now.Add(-time.Hour),
	}))

	n, err := repo.RevokePending(ctx, board.ID, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = repo.RevokePending(ctx, board.ID, now)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	inv, err := repo.FindByToken(ctx, "tok-expired")
	require.NoError(t, err)
	require.Equal(t, models.InvitationRevoked, inv.Status)
	require.NotNil(t, inv.RevokedAt)
}

func TestStandupRepository_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))
	board := createBoard(t, store, "Platform")
	repo := store.Standups()

	require.NoError(t, repo.Upsert(ctx, &models.Standup{BoardID: board.ID, UserID: "u1", Date: "2026-10-01", Today: "first"}))
	require.NoError(t, repo.Upsert(ctx, &models.Standup{BoardID: board.ID, UserID: "u1", Date: "2026-10-01", Today: "second"}))
	require.NoError(t, repo.Upsert(ctx, &models.Standup{BoardID: board.ID, UserID: "u2", Date: "2026-10-01", Today: "other"}))
	require.NoError(t, repo.Upsert(ctx, &models.Standup{BoardID: board.ID, UserID: "u1", Date: "2026-10-02", Today: "next"}))

	entry, err := repo.FindForDay(ctx, board.ID, "u1", "2026-10-01")
	require.NoError(t, err)
	require.Equal(t, "second", entry.Today)

	pagination := utils.NewPaginationParams(1, 10)
	list, total, err := repo.List(ctx, StandupFilter{BoardID: board.ID, Date: "2026-10-01", Pagination: &pagination})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, list, 2)

	pagination = utils.NewPaginationParams(1, 1)
	list, total, err = repo.List(ctx, StandupFilter{BoardID: board.ID, UserID: "u1", Pagination: &pagination})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, list, 1)
	require.Equal(t, "2026-10-02", list[0].Date)

	require.NoError(t, repo.DeleteByBoard(ctx, board.ID))
	_, total, err = repo.List(ctx, StandupFilter{BoardID: board.ID})
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))
	board := createBoard(t, store, "Platform")

	err := store.Transaction(ctx, func(tx Store) error {
		if err := tx.Collaborators().CreateBatch(ctx, []models.Collaborator{
			{BoardID: board.ID, UserID: "u1", Role: models.RoleAdmin},
		}); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	require.ErrorIs(t, err, gorm.ErrInvalidData)

	list, err := store.Collaborators().ListByBoard(ctx, board.ID)
	require.NoError(t, err)
	require.Empty(t, list)
}
