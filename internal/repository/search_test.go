package repository

import (
	"context"
	"database/sql"
	"math"
	"strings"
	"sync"
	"testing"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"roamly/internal/models"
)

// trigrams extracts the trigram set of a string the way pg_trgm does:
// lowercase, split into words, pad each word with two leading and one
// trailing space.
func trigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(s)) {
		padded := "  " + word + " "
		for i := 0; i+3 <= len(padded); i++ {
			set[padded[i:i+3]] = struct{}{}
		}
	}
	return set
}

// trigramSimilarity mirrors pg_trgm's similarity(): shared trigrams over the
// union of both sets.
func trigramSimilarity(a, b string) float64 {
	ta, tb := trigrams(a), trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	shared := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(ta)+len(tb)-shared)
}

var trgmDriverOnce sync.Once

// openTrgmDB opens an in-memory sqlite database with similarity() and
// GREATEST() wired in, so the fuzzy-search queries run for real instead of
// against a mock.
func openTrgmDB(t *testing.T) *gorm.DB {
	t.Helper()
	trgmDriverOnce.Do(func() {
		sql.Register("sqlite3_trgm", &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				if err := conn.RegisterFunc("similarity", trigramSimilarity, true); err != nil {
					return err
				}
				return conn.RegisterFunc("greatest", math.Max, true)
			},
		})
	})

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite3_trgm", DSN: dsn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Adventure{}, &models.Image{}, &models.Comment{}, &models.Like{},
	))
	return db
}

func TestTrigramSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, trigramSimilarity("Juan de Fuca", "juan de fuca"))
	assert.Zero(t, trigramSimilarity("Juan de Fuca", "West Coast"))
	assert.Zero(t, trigramSimilarity("", "anything"))

	// A near-miss scores high but below an exact match.
	near := trigramSimilarity("trailblazer", "trailblazr")
	assert.Greater(t, near, 0.2)
	assert.Less(t, near, 1.0)
}

func TestAdventureRepository_SearchRanking(t *testing.T) {
	db := openTrgmDB(t)
	repo := NewAdventureRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "alice", "alice@example.com")
	for _, title := range []string{
		"West Coast Trail",
		"Juan de Fuca Marine Loop",
		"Juan de Fuca Trail",
	} {
		require.NoError(t, db.Create(&models.Adventure{
			Title:       title,
			Description: "Rugged coastline.",
			OwnerID:     owner.ID,
		}).Error)
	}

	results, err := repo.Search(ctx, "juan de fuca", 20)
	require.NoError(t, err)

	// The unrelated title falls under the 0.2 threshold; the closer of the
	// two matches ranks first.
	require.Len(t, results, 2)
	assert.Equal(t, "Juan de Fuca Trail", results[0].Title)
	assert.Equal(t, "Juan de Fuca Marine Loop", results[1].Title)

	t.Run("no matches is an empty result", func(t *testing.T) {
		results, err := repo.Search(ctx, "zzzzqqqq", 20)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("description matches too", func(t *testing.T) {
		results, err := repo.Search(ctx, "rugged coastline", 20)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})
}

func TestUserRepository_SearchRanking(t *testing.T) {
	db := openTrgmDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, "trailblazer", "tb@example.com")
	seedUser(t, db, "trailrunner", "tr@example.com")
	seedUser(t, db, "alice", "alice@example.com")

	results, err := repo.SearchByUsername(ctx, "trailblazr", 20)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "trailblazer", results[0].Username)
	assert.Equal(t, "trailrunner", results[1].Username)
}
