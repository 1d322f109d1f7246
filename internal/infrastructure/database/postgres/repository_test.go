package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gramroute/internal/domain/report"
	"gramroute/internal/domain/user"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gramroute.db")), &gorm.Config{
		Logger:         gormLogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := Wrap(gdb)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createUser(t *testing.T, repo *UserRepository, username string) *user.User {
	t.Helper()

	u := &user.User{
		Email:          username + "@example.com",
		Username:       username,
		PasswordHashed: "hash",
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	u := createUser(t, repo, "alice")
	assert.NotEqual(t, uuid.Nil, u.ID)

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, &user.User{Email: "alice@example.com", Username: "alice2", PasswordHashed: "hash"})
		assert.ErrorIs(t, err, user.ErrUserAlreadyExists)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := repo.Create(ctx, &user.User{Email: "other@example.com", Username: "alice", PasswordHashed: "hash"})
		assert.ErrorIs(t, err, user.ErrUserAlreadyExists)
	})

	t.Run("lookup", func(t *testing.T) {
		byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
		assert.Equal(t, "hash", byEmail.PasswordHashed)
		assert.False(t, byEmail.IsAdmin)

		byID, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", byID.Username)

		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
		_, err = repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("update profile", func(t *testing.T) {
		phone := "+1 555 0100"
		u.FirstName = "Alice"
		u.Phone = &phone
		require.NoError(t, repo.UpdateProfile(ctx, u))

		got, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.FirstName)
		require.NotNil(t, got.Phone)
		assert.Equal(t, phone, *got.Phone)

		err = repo.UpdateProfile(ctx, &user.User{ID: uuid.New()})
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("set admin", func(t *testing.T) {
		require.NoError(t, repo.SetAdmin(ctx, u.ID, true))
		got, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, got.IsAdmin)

		assert.ErrorIs(t, repo.SetAdmin(ctx, uuid.New(), true), user.ErrUserNotFound)
	})
}

func TestReportRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	reports := NewReportRepository(db)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	submit := func(owner *user.User, title string, category report.Category) *report.Report {
		r := &report.Report{
			UserID:      owner.ID,
			Title:       title,
			Description: title + " description",
			Category:    category,
		}
		require.NoError(t, reports.Create(ctx, r))
		time.Sleep(2 * time.Millisecond)
		return r
	}

	first := submit(alice, "Pothole", report.CategoryRoad)
	second := submit(alice, "Broken light", report.CategorySafety)
	third := submit(bob, "Overflowing bin", report.CategoryWaste)

	t.Run("create defaults", func(t *testing.T) {
		assert.NotEqual(t, uuid.Nil, first.ID)
		assert.Equal(t, report.StatusPending, first.Status)
		assert.False(t, first.CreatedAt.IsZero())
		assert.Zero(t, first.CreatedAt.Nanosecond()%1000, "created_at must be truncated to microseconds")
		assert.Equal(t, first.CreatedAt, first.UpdatedAt)
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := reports.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Pothole", got.Title)
		assert.Equal(t, report.CategoryRoad, got.Category)
		require.NotNil(t, got.Owner)
		assert.Equal(t, "alice", got.Owner.Username)
		assert.True(t, got.CreatedAt.Equal(first.CreatedAt), "stored %v, created %v", got.CreatedAt, first.CreatedAt)

		_, err = reports.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, report.ErrReportNotFound)
	})

	t.Run("list by user oldest first", func(t *testing.T) {
		mine, err := reports.ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, first.ID, mine[0].ID)
		assert.Equal(t, second.ID, mine[1].ID)

		none, err := reports.ListByUser(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("list all newest first with owner", func(t *testing.T) {
		all, err := reports.ListAll(ctx, nil)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, third.ID, all[0].ID)
		assert.Equal(t, first.ID, all[2].ID)
		require.NotNil(t, all[0].Owner)
		assert.Equal(t, "bob", all[0].Owner.Username)
		assert.Equal(t, "bob@example.com", all[0].Owner.Email)

		category := report.CategorySafety
		filtered, err := reports.ListAll(ctx, &report.Filter{Category: &category})
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, second.ID, filtered[0].ID)
	})

	t.Run("transition and award", func(t *testing.T) {
		updated, err := reports.TransitionStatus(ctx, first.ID, report.StatusPending, report.StatusInProgress, 0)
		require.NoError(t, err)
		assert.Equal(t, report.StatusInProgress, updated.Status)

		_, err = reports.TransitionStatus(ctx, first.ID, report.StatusPending, report.StatusInProgress, 0)
		assert.ErrorIs(t, err, report.ErrStatusChanged)

		updated, err = reports.TransitionStatus(ctx, first.ID, report.StatusInProgress, report.StatusResolved, 10)
		require.NoError(t, err)
		assert.Equal(t, report.StatusResolved, updated.Status)

		owner, err := users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, owner.Score)

		_, err = reports.TransitionStatus(ctx, uuid.New(), report.StatusPending, report.StatusInProgress, 0)
		assert.ErrorIs(t, err, report.ErrReportNotFound)

		status := report.StatusResolved
		resolved, err := reports.ListAll(ctx, &report.Filter{Status: &status})
		require.NoError(t, err)
		require.Len(t, resolved, 1)
		assert.Equal(t, first.ID, resolved[0].ID)
	})

	t.Run("count by status", func(t *testing.T) {
		counts, err := reports.CountByStatus(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, report.StatusCounts{Total: 2, Pending: 1, Resolved: 1}, *counts)

		empty, err := reports.CountByStatus(ctx, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, report.StatusCounts{}, *empty)
	})
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, isUniqueViolation(gorm.ErrRecordNotFound))
}
