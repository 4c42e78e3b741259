package handlers

import (
	"log/slog"

	"github.com/circlesync/backend/internal/database"
	"github.com/circlesync/backend/internal/notify"
	"github.com/circlesync/backend/internal/voting"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Post         *PostHandler
	Comment      *CommentHandler
	User         *UserHandler
	Vote         *VoteHandler
	Tag          *TagHandler
	Announcement *AnnouncementHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db database.Service, notifier *notify.Notifier) *Handler {
	gormDB := db.GetDB()

	postVotes := voting.NewService(
		voting.NewGormLedger(gormDB, voting.TargetPost),
		voting.NewGormItemStore(gormDB, voting.TargetPost),
		slog.Default(),
	)
	commentVotes := voting.NewService(
		voting.NewGormLedger(gormDB, voting.TargetComment),
		voting.NewGormItemStore(gormDB, voting.TargetComment),
		slog.Default(),
	)

	return &Handler{
		Auth:         NewAuthHandler(gormDB),
		Post:         NewPostHandler(gormDB),
		Comment:      NewCommentHandler(gormDB),
		User:         NewUserHandler(gormDB),
		Vote:         NewVoteHandler(postVotes, commentVotes),
		Tag:          NewTagHandler(gormDB),
		Announcement: NewAnnouncementHandler(gormDB, notifier),
	}
}
