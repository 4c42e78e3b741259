package models

import "time"

// Vote model - one record per (user, item) pair. VoteType holds the
// voter's current disposition: 1 upvote, -1 downvote, 0 cleared.
// Records are mutated in place when the disposition changes, never
// deleted by the voting subsystem. Exactly one of PostID/CommentID is
// set; the partial unique indexes make the (user, item) pair the
// natural key on both sides.
type Vote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"index;uniqueIndex:idx_votes_user_post;uniqueIndex:idx_votes_user_comment" json:"user_id"`
	PostID    *int      `gorm:"index;uniqueIndex:idx_votes_user_post,where:post_id IS NOT NULL" json:"post_id,omitempty"`
	CommentID *int      `gorm:"index;uniqueIndex:idx_votes_user_comment,where:comment_id IS NOT NULL" json:"comment_id,omitempty"`
	VoteType  int       `json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
