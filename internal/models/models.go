package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered author account.
type User struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:text;not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Group is a named collection of posts addressed by its slug.
type Group struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Post is a text entry by a single author, optionally filed under a group
// and optionally carrying an uploaded image. The author never changes after
// creation; edits touch text, group and image only.
type Post struct {
	ID   string `gorm:"primaryKey;type:uuid" json:"id"`
	Text string `gorm:"type:text;not null" json:"text"`

	AuthorID string `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	GroupID *string `gorm:"type:uuid;index" json:"group_id,omitempty"`
	Group   *Group  `gorm:"foreignKey:GroupID" json:"group,omitempty"`

	ImageURL string `json:"image_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment belongs to exactly one post and one author, both fixed at creation.
type Comment struct {
	ID   string `gorm:"primaryKey;type:uuid" json:"id"`
	Text string `gorm:"type:text;not null" json:"text"`

	PostID string `gorm:"not null;index" json:"post_id"`
	Post   Post   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`

	AuthorID string `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Follow is a directed subscription edge: the user's feed includes the
// author's posts. One row per (user, author) pair, enforced by the
// composite unique index.
type Follow struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	UserID string `gorm:"not null;index;uniqueIndex:idx_follows_user_author" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	AuthorID string `gorm:"not null;index;uniqueIndex:idx_follows_user_author" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate hooks for GORM

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = generateUUID()
	}
	return nil
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = generateUUID()
	}
	return nil
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = generateUUID()
	}
	return nil
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = generateUUID()
	}
	return nil
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = generateUUID()
	}
	return nil
}

func generateUUID() string {
	return uuid.New().String()
}
