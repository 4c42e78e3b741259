package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/circlesync/backend/internal/models"
)

type PostHandler struct {
	db *gorm.DB
}

func NewPostHandler(db *gorm.DB) *PostHandler {
	return &PostHandler{db: db}
}

func skipParam(c *gin.Context) int {
	skip, _ := strconv.Atoi(c.Query("skip"))
	if skip < 0 {
		skip = 0
	}
	return skip
}

// GetPosts returns a page of posts, newest first. With ?popularity=true
// the page is ordered by vote difference instead, which is why the
// counters are denormalized onto the post row.
func (h *PostHandler) GetPosts(c *gin.Context) {
	const pageSize = 5

	query := h.db.Preload("User")
	if c.Query("popularity") == "true" {
		query = query.Order("(upvotes - downvotes) desc")
	} else {
		query = query.Order("created_at desc")
	}

	var posts []models.Post
	if err := query.Offset(skipParam(c) * pageSize).Limit(pageSize).Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	// If no posts, return empty array not null
	if posts == nil {
		posts = []models.Post{}
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost returns a single post by ID
func (h *PostHandler) GetPost(c *gin.Context) {
	postID := c.Param("id")
	var post models.Post

	if err := h.db.Preload("User").First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePost creates a new post (PROTECTED - requires authentication)
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Tag         string `json:"tag"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	post := models.Post{
		Title:       input.Title,
		Description: input.Description,
		Tag:         input.Tag,
		AuthorID:    authorID,
	}

	if err := h.db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	// Reload with author information
	h.db.Preload("User").First(&post, post.ID)

	c.JSON(http.StatusCreated, post)
}

// DeletePost deletes a post along with its comments and votes
// (PROTECTED - requires ownership)
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID := c.Param("id")

	currentUserID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.AuthorID != currentUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		return
	}

	// Cascade: the voting subsystem never deletes ledger records, so
	// the item owner cleans them up when the item goes away.
	if err := h.db.Where("post_id = ?", post.ID).Delete(&models.Vote{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	if err := h.db.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	if err := h.db.Delete(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// GetUserPosts returns a page of posts by a specific user
func (h *PostHandler) GetUserPosts(c *gin.Context) {
	const pageSize = 10
	userID := c.Param("id")

	var posts []models.Post
	err := h.db.Preload("User").
		Where("author_id = ?", userID).
		Order("created_at desc").
		Offset(skipParam(c) * pageSize).
		Limit(pageSize).
		Find(&posts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user posts"})
		return
	}

	if posts == nil {
		posts = []models.Post{}
	}

	c.JSON(http.StatusOK, posts)
}

// PostsCount returns the authenticated user's post count
func (h *PostHandler) PostsCount(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var count int64
	h.db.Model(&models.Post{}).Where("author_id = ?", userID).Count(&count)
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// TotalPostsCount returns the number of posts across the forum
func (h *PostHandler) TotalPostsCount(c *gin.Context) {
	var count int64
	h.db.Model(&models.Post{}).Count(&count)
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// TaggedPosts returns post titles matching a tag search
func (h *PostHandler) TaggedPosts(c *gin.Context) {
	tag := c.Query("tag")
	if tag == "" {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}

	var posts []models.Post
	err := h.db.Select("id", "title").
		Where("tag ILIKE ?", "%"+tag+"%").
		Find(&posts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search posts"})
		return
	}

	results := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		results = append(results, gin.H{"id": post.ID, "title": post.Title})
	}

	c.JSON(http.StatusOK, results)
}
