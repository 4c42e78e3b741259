package models

import "time"

type Announcement struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	AuthorID    int       `json:"author_id"`
	User        User      `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateAnnouncementRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
