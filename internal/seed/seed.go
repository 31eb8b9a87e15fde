// Package seed populates a development database with realistic test data.
package seed

import (
	"fmt"
	"log"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"roamly/internal/models"
)

// Password is the plaintext password shared by all seeded accounts.
const Password = "trailmix1"

// Seeder creates fake users, adventures and engagement.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder returns a Seeder bound to db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll removes all rows in dependency order.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{
		&models.Like{}, &models.Comment{}, &models.Image{}, &models.Adventure{}, &models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	log.Println("Cleared existing data")
	return nil
}

// SeedUsers creates n accounts, all sharing Password.
func (s *Seeder) SeedUsers(n int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user := models.User{
			// Suffix keeps usernames unique even when gofakeit repeats
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("seed%d.%s", i, gofakeit.Email()),
			Password: string(hash),
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %q: %w", user.Username, err)
		}
		users = append(users, user)
	}

	log.Printf("Seeded %d users", len(users))
	return users, nil
}

// SeedAdventures creates n adventures spread across users.
func (s *Seeder) SeedAdventures(users []models.User, n int) ([]models.Adventure, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to own adventures")
	}

	adventures := make([]models.Adventure, 0, n)
	for i := 0; i < n; i++ {
		owner := users[gofakeit.Number(0, len(users)-1)]
		adventure := models.Adventure{
			// Index keeps the per-owner title unique
			Title:       fmt.Sprintf("%s %s #%d", gofakeit.Adjective(), gofakeit.NounConcrete(), i),
			Description: gofakeit.Paragraph(1, 3, 12, " "),
			OwnerID:     owner.ID,
		}
		if err := s.db.Create(&adventure).Error; err != nil {
			return nil, fmt.Errorf("failed to create adventure %q: %w", adventure.Title, err)
		}
		adventures = append(adventures, adventure)
	}

	log.Printf("Seeded %d adventures", len(adventures))
	return adventures, nil
}

// SeedEngagement adds comments and likes to the given adventures.
func (s *Seeder) SeedEngagement(users []models.User, adventures []models.Adventure) error {
	comments, likes := 0, 0
	for _, adventure := range adventures {
		for i := 0; i < gofakeit.Number(0, 5); i++ {
			commenter := users[gofakeit.Number(0, len(users)-1)]
			comment := models.Comment{
				Content:     gofakeit.Sentence(gofakeit.Number(4, 14)),
				OwnerID:     commenter.ID,
				AdventureID: adventure.ID,
			}
			if err := s.db.Create(&comment).Error; err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
			comments++
		}

		for _, user := range users {
			if gofakeit.Bool() {
				continue
			}
			like := models.Like{UserID: user.ID, AdventureID: adventure.ID}
			if err := s.db.Create(&like).Error; err != nil {
				return fmt.Errorf("failed to create like: %w", err)
			}
			likes++
		}
	}

	log.Printf("Seeded %d comments and %d likes", comments, likes)
	return nil
}
