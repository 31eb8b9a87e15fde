package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"roamly/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Adventure{}, &models.Image{}, &models.Comment{}, &models.Like{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "alice", Email: "alice2@example.com", Password: "hash"})
		require.Error(t, err)
		assert.Equal(t, models.CodeConflict, appCode(t, err))
	})

	t.Run("lookup by email", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("missing email returns nil without error", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		require.Error(t, err)
		assert.Equal(t, models.CodeNotFound, appCode(t, err))
	})
}

func TestLikeRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "alice", "alice@example.com")
	fan := seedUser(t, db, "bob", "bob@example.com")
	adventure := &models.Adventure{Title: "West Coast Trail", Description: "Rugged.", OwnerID: owner.ID}
	require.NoError(t, db.Create(adventure).Error)

	require.NoError(t, repo.Like(ctx, fan.ID, adventure.ID))

	t.Run("liking twice is a conflict", func(t *testing.T) {
		err := repo.Like(ctx, fan.ID, adventure.ID)
		require.Error(t, err)
		assert.Equal(t, models.CodeConflict, appCode(t, err))
	})

	t.Run("unlike is idempotent", func(t *testing.T) {
		require.NoError(t, repo.Unlike(ctx, fan.ID, adventure.ID))
		require.NoError(t, repo.Unlike(ctx, fan.ID, adventure.ID))

		var count int64
		require.NoError(t, db.Model(&models.Like{}).
			Where("user_id = ? AND adventure_id = ?", fan.ID, adventure.ID).
			Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestAdventureRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAdventureRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "alice", "alice@example.com")
	adventure := &models.Adventure{Title: "West Coast Trail", Description: "Rugged.", OwnerID: owner.ID}
	require.NoError(t, repo.Create(ctx, adventure))

	t.Run("same owner and title is a conflict", func(t *testing.T) {
		err := repo.Create(ctx, &models.Adventure{Title: "West Coast Trail", Description: "Again.", OwnerID: owner.ID})
		require.Error(t, err)
		assert.Equal(t, models.CodeConflict, appCode(t, err))
	})

	t.Run("another owner can reuse the title", func(t *testing.T) {
		other := seedUser(t, db, "bob", "bob@example.com")
		err := repo.Create(ctx, &models.Adventure{Title: "West Coast Trail", Description: "Bob's.", OwnerID: other.ID})
		assert.NoError(t, err)
	})

	t.Run("get by id includes likes count", func(t *testing.T) {
		require.NoError(t, db.Create(&models.Like{UserID: owner.ID, AdventureID: adventure.ID}).Error)

		found, err := repo.GetByID(ctx, adventure.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.LikesCount)
		assert.Equal(t, "alice", found.Owner.Username)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		require.Error(t, err)
		assert.Equal(t, models.CodeNotFound, appCode(t, err))
	})

	t.Run("list by owner only returns that owner's adventures", func(t *testing.T) {
		mine, err := repo.ListByOwner(ctx, owner.ID, 20, 0)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, owner.ID, mine[0].OwnerID)
	})

	t.Run("exists by title and owner", func(t *testing.T) {
		exists, err := repo.ExistsByTitleOwner(ctx, "West Coast Trail", owner.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByTitleOwner(ctx, "Nowhere Trail", owner.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

// Trigram search needs pg_trgm, so the generated SQL is checked against a
// mocked Postgres connection instead of sqlite.
func TestAdventureRepository_SearchSQL(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .+ FROM "adventures" WHERE similarity\(title, .+ OR similarity\(description, .+ ORDER BY GREATEST\(similarity\(title, .+ DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "owner_id"}).
			AddRow(1, "Juan de Fuca Trail", "Coastal backpacking.", 1))
	// Preloads for the one matched row
	mock.ExpectQuery(`SELECT .+ FROM "images"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "url", "caption", "adventure_id", "owner_id"}))
	mock.ExpectQuery(`SELECT .+ FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).AddRow(1, "alice", "alice@example.com"))

	repo := NewAdventureRepository(db)
	results, err := repo.Search(context.Background(), "juan fuca", 20)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Juan de Fuca Trail", results[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SearchSQL(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .+ FROM "users" WHERE similarity\(username, .+ ORDER BY similarity\(username, .+ DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(1, "trailblazer", "tb@example.com"))

	repo := NewUserRepository(db)
	results, err := repo.SearchByUsername(context.Background(), "trailblaser", 20)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "trailblazer", results[0].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}
