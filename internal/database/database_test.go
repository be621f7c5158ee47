package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/standup-api/internal/config"
	"github.com/yukikurage/standup-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		cfg := config.Default()
		cfg.DBDriver = driver
		cfg.DBName = "standup"

		d, err := Dialector(cfg)
		require.NoError(t, err, driver)
		require.Equal(t, driver, d.Name())
	}

	cfg := config.Default()
	cfg.DBDriver = "oracle"
	_, err := Dialector(cfg)
	require.Error(t, err)
}

func TestMigrateDatabase_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, MigrateDatabase(db))
	require.NoError(t, MigrateDatabase(db))

	require.True(t, db.Migrator().HasIndex("invitations", "uniq_invitations_board_pending"))
	require.True(t, db.Migrator().HasIndex("collaborators", "idx_collaborators_user_id"))
}

func TestMigrateDatabase_OnePendingInvitationPerBoard(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, MigrateDatabase(db))

	board := models.Board{Name: "Team"}
	require.NoError(t, db.Create(&board).Error)

	first := models.Invitation{BoardID: board.ID, InviterUserID: "u1", Token: "t1", Role: models.RoleCollaborator, Status: models.InvitationPending}
	require.NoError(t, db.Create(&first).Error)

	second := models.Invitation{BoardID: board.ID, InviterUserID: "u1", Token: "t2", Role: models.RoleCollaborator, Status: models.InvitationPending}
	require.Error(t, db.Create(&second).Error)

	revoked := models.Invitation{BoardID: board.ID, InviterUserID: "u1", Token: "t3", Role: models.RoleCollaborator, Status: models.InvitationRevoked}
	require.NoError(t, db.Create(&revoked).Error)
}

func TestActiveInvitationsScope(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, MigrateDatabase(db))

	board := models.Board{Name: "Team"}
	require.NoError(t, db.Create(&board).Error)

	now := db.NowFunc().UTC()
	active := models.Invitation{BoardID: board.ID, InviterUserID: "u1", Token: "active", Role: models.RoleAdmin, Status: models.InvitationPending, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, db.Create(&active).Error)
	used := models.Invitation{BoardID: board.ID, InviterUserID: "u1", Token: "used", Role: models.RoleAdmin, Status: models.InvitationUsed, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, db.Create(&used).Error)

	var found []models.Invitation
	require.NoError(t, db.Scopes(ActiveInvitations(board.ID, now)).Find(&found).Error)
	require.Len(t, found, 1)
	require.Equal(t, "active", found[0].Token)
}
