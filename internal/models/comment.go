package models

import "time"

// Comment report states used by the moderation surface.
const (
	ReportNone     = ""
	ReportReported = "Reported"
	ReportResolved = "Resolved"
)

type Comment struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	Body         string    `gorm:"not null" json:"body"`
	AuthorID     int       `json:"author_id"`
	User         User      `gorm:"foreignKey:AuthorID" json:"user"`
	PostID       int       `gorm:"index" json:"post_id"`
	PostAuthorID int       `json:"post_author_id"`
	Upvotes      int       `gorm:"default:0" json:"upvotes"`
	Downvotes    int       `gorm:"default:0" json:"downvotes"`
	ReportStatus string    `gorm:"index" json:"report_status"`
	Feedback     string    `json:"feedback"` // reporter's reason, set when reported
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateCommentRequest struct {
	Body string `json:"body"`
}
