package models

import "time"

type Post struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Tag         string    `gorm:"index" json:"tag"`
	AuthorID    int       `json:"author_id"`
	User        User      `gorm:"foreignKey:AuthorID" json:"author"`
	Upvotes     int       `gorm:"default:0" json:"upvotes"`
	Downvotes   int       `gorm:"default:0" json:"downvotes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tag         string `json:"tag"`
}
