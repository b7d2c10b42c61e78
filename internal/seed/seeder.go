package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/inkpost/inkpost/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder fills a development database with realistic data.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a seeder on the given connection.
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev creates groups, users, posts, comments and follow edges.
// Every seeded user logs in with the password "password".
func (s *Seeder) SeedDev() error {
	groups, err := s.seedGroups()
	if err != nil {
		return err
	}

	users, err := s.seedUsers(12)
	if err != nil {
		return err
	}

	posts, err := s.seedPosts(users, groups, 60)
	if err != nil {
		return err
	}

	if err := s.seedComments(users, posts, 120); err != nil {
		return err
	}

	return s.seedFollows(users)
}

// Clean removes all seeded rows. Order respects foreign keys.
func (s *Seeder) Clean() error {
	for _, model := range []interface{}{
		&models.Comment{},
		&models.Follow{},
		&models.Post{},
		&models.Group{},
		&models.User{},
	} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clean seed data: %w", err)
		}
	}
	return nil
}

func (s *Seeder) seedGroups() ([]models.Group, error) {
	titles := []string{"Travel", "Cooking", "Technology", "Music", "Books"}

	groups := make([]models.Group, 0, len(titles))
	for _, title := range titles {
		group := models.Group{
			Title:       title,
			Slug:        strings.ToLower(title),
			Description: gofakeit.Sentence(8),
		}
		if err := s.db.Where("slug = ?", group.Slug).FirstOrCreate(&group).Error; err != nil {
			return nil, fmt.Errorf("failed to seed group %q: %w", title, err)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		user := models.User{
			Username:     fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i),
			Email:        gofakeit.Email(),
			PasswordHash: string(hash),
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to seed user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedPosts(users []models.User, groups []models.Group, count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[gofakeit.Number(0, len(users)-1)]
		post := models.Post{
			Text:     gofakeit.Paragraph(1, 3, 12, " "),
			AuthorID: author.ID,
		}
		// Roughly two thirds of posts get filed under a group
		if gofakeit.Number(0, 2) > 0 {
			group := groups[gofakeit.Number(0, len(groups)-1)]
			post.GroupID = &group.ID
		}
		if err := s.db.Create(&post).Error; err != nil {
			return nil, fmt.Errorf("failed to seed post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedComments(users []models.User, posts []models.Post, count int) error {
	for i := 0; i < count; i++ {
		comment := models.Comment{
			Text:     gofakeit.Sentence(10),
			PostID:   posts[gofakeit.Number(0, len(posts)-1)].ID,
			AuthorID: users[gofakeit.Number(0, len(users)-1)].ID,
		}
		if err := s.db.Create(&comment).Error; err != nil {
			return fmt.Errorf("failed to seed comment: %w", err)
		}
	}
	return nil
}

func (s *Seeder) seedFollows(users []models.User) error {
	for _, user := range users {
		for i := 0; i < 3; i++ {
			author := users[gofakeit.Number(0, len(users)-1)]
			if author.ID == user.ID {
				continue
			}
			follow := models.Follow{UserID: user.ID, AuthorID: author.ID}
			// Duplicate pairs hit the unique index; skip them
			if err := s.db.Where("user_id = ? AND author_id = ?", user.ID, author.ID).
				FirstOrCreate(&follow).Error; err != nil {
				return fmt.Errorf("failed to seed follow: %w", err)
			}
		}
	}
	return nil
}
