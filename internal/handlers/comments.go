package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/circlesync/backend/internal/models"
)

type CommentHandler struct {
	db *gorm.DB
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{db: db}
}

// GetComments returns comments for a post. With ?all=true the full
// thread is returned, otherwise a page of 10.
func (h *CommentHandler) GetComments(c *gin.Context) {
	const pageSize = 10
	postID := c.Param("id")

	query := h.db.Where("post_id = ?", postID).Preload("User").Order("created_at desc")
	if c.Query("all") != "true" {
		query = query.Offset(skipParam(c) * pageSize).Limit(pageSize)
	}

	var comments []models.Comment
	if err := query.Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	if comments == nil {
		comments = []models.Comment{}
	}

	c.JSON(http.StatusOK, comments)
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var input struct {
		Body string `json:"body" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	postID := c.Param("id")
	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	// Verify post exists
	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	comment := models.Comment{
		Body:         input.Body,
		PostID:       post.ID,
		PostAuthorID: post.AuthorID,
		AuthorID:     authorID,
	}

	if err := h.db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	h.db.Preload("User").First(&comment, comment.ID)
	c.JSON(http.StatusCreated, comment)
}

// UpdateComment updates a comment's body (owner only)
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID := c.Param("commentId")

	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var comment models.Comment
	if err := h.db.First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.AuthorID != authorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own comments"})
		return
	}

	comment.Body = input.Body
	h.db.Save(&comment)
	h.db.Preload("User").First(&comment, comment.ID)

	c.JSON(http.StatusOK, comment)
}

// ReportComment flags a comment for moderation with the reporter's
// feedback
func (h *CommentHandler) ReportComment(c *gin.Context) {
	commentID := c.Param("commentId")

	if _, ok := extractUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Feedback string `json:"feedback" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var comment models.Comment
	if err := h.db.First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	comment.ReportStatus = models.ReportReported
	comment.Feedback = input.Feedback
	h.db.Save(&comment)

	c.JSON(http.StatusOK, gin.H{"message": "Comment reported"})
}

// PostCommentsCount returns the number of comments on a post
func (h *CommentHandler) PostCommentsCount(c *gin.Context) {
	postID := c.Param("id")

	var count int64
	h.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count)
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// CommentsCount returns the number of comments left on the
// authenticated user's posts
func (h *CommentHandler) CommentsCount(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var count int64
	h.db.Model(&models.Comment{}).Where("post_author_id = ?", userID).Count(&count)
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// TotalCommentsCount returns the forum-wide comment count (ADMIN)
func (h *CommentHandler) TotalCommentsCount(c *gin.Context) {
	var count int64
	h.db.Model(&models.Comment{}).Count(&count)
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// ReportedComments returns a page of comments awaiting moderation (ADMIN)
func (h *CommentHandler) ReportedComments(c *gin.Context) {
	const pageSize = 10

	var comments []models.Comment
	err := h.db.Where("report_status = ?", models.ReportReported).
		Preload("User").
		Order("updated_at desc").
		Offset(skipParam(c) * pageSize).
		Limit(pageSize).
		Find(&comments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reported comments"})
		return
	}

	if comments == nil {
		comments = []models.Comment{}
	}

	c.JSON(http.StatusOK, comments)
}

// ReportedCommentsCount returns the number of open reports (ADMIN)
func (h *CommentHandler) ReportedCommentsCount(c *gin.Context) {
	var count int64
	h.db.Model(&models.Comment{}).Where("report_status = ?", models.ReportReported).Count(&count)
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// ResolveReportedComment dismisses a report, keeping the comment (ADMIN)
func (h *CommentHandler) ResolveReportedComment(c *gin.Context) {
	commentID := c.Param("commentId")

	var comment models.Comment
	if err := h.db.First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	comment.ReportStatus = models.ReportResolved
	h.db.Save(&comment)

	c.JSON(http.StatusOK, gin.H{"message": "Report resolved"})
}

// DeleteReportedComment removes a reported comment and its votes (ADMIN)
func (h *CommentHandler) DeleteReportedComment(c *gin.Context) {
	commentID := c.Param("commentId")

	var comment models.Comment
	if err := h.db.First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	// Clean up votes on this comment too
	if err := h.db.Where("comment_id = ?", comment.ID).Delete(&models.Vote{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	if err := h.db.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
