package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/circlesync/backend/internal/voting"
)

// VoteHandler exposes the voting subsystem over HTTP. Posts and
// comments each get their own service instance bound to the matching
// ledger and counter store.
type VoteHandler struct {
	posts    *voting.Service
	comments *voting.Service
}

func NewVoteHandler(posts, comments *voting.Service) *VoteHandler {
	return &VoteHandler{posts: posts, comments: comments}
}

func (h *VoteHandler) cast(c *gin.Context, svc *voting.Service, idParam string, action voting.Action, kind string) {
	voterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	itemID, err := strconv.Atoi(c.Param(idParam))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + kind + " id"})
		return
	}

	label, err := svc.CastVote(c.Request.Context(), voterID, itemID, action)
	if err != nil {
		if errors.Is(err, voting.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": kind + " not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": label})
}

func (h *VoteHandler) state(c *gin.Context, svc *voting.Service, idParam, kind string) {
	voterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	itemID, err := strconv.Atoi(c.Param(idParam))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + kind + " id"})
		return
	}

	d, err := svc.VoteState(c.Request.Context(), voterID, itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vote state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"disposition": d.String()})
}

// UpvotePost handles POST /posts/:id/upvote
func (h *VoteHandler) UpvotePost(c *gin.Context) {
	h.cast(c, h.posts, "id", voting.ActionUp, "Post")
}

// DownvotePost handles POST /posts/:id/downvote
func (h *VoteHandler) DownvotePost(c *gin.Context) {
	h.cast(c, h.posts, "id", voting.ActionDown, "Post")
}

// PostVoteState handles GET /posts/:id/vote
func (h *VoteHandler) PostVoteState(c *gin.Context) {
	h.state(c, h.posts, "id", "Post")
}

// UpvoteComment handles POST /comments/:commentId/upvote
func (h *VoteHandler) UpvoteComment(c *gin.Context) {
	h.cast(c, h.comments, "commentId", voting.ActionUp, "Comment")
}

// DownvoteComment handles POST /comments/:commentId/downvote
func (h *VoteHandler) DownvoteComment(c *gin.Context) {
	h.cast(c, h.comments, "commentId", voting.ActionDown, "Comment")
}

// CommentVoteState handles GET /comments/:commentId/vote
func (h *VoteHandler) CommentVoteState(c *gin.Context) {
	h.state(c, h.comments, "commentId", "Comment")
}

// ReconcilePost handles POST /admin/posts/:id/reconcile. Recomputes the
// post's counters from the vote ledger after a partial failure.
func (h *VoteHandler) ReconcilePost(c *gin.Context) {
	h.reconcile(c, h.posts, "id", "Post")
}

// ReconcileComment handles POST /admin/comments/:commentId/reconcile.
func (h *VoteHandler) ReconcileComment(c *gin.Context) {
	h.reconcile(c, h.comments, "commentId", "Comment")
}

func (h *VoteHandler) reconcile(c *gin.Context, svc *voting.Service, idParam, kind string) {
	itemID, err := strconv.Atoi(c.Param(idParam))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + kind + " id"})
		return
	}

	if err := svc.Reconcile(c.Request.Context(), itemID); err != nil {
		if errors.Is(err, voting.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": kind + " not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile counters"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Counters reconciled"})
}
