package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/circlesync/backend/internal/models"
	"github.com/circlesync/backend/internal/notify"
)

type AnnouncementHandler struct {
	db       *gorm.DB
	notifier *notify.Notifier
}

func NewAnnouncementHandler(db *gorm.DB, notifier *notify.Notifier) *AnnouncementHandler {
	return &AnnouncementHandler{db: db, notifier: notifier}
}

// GetAnnouncements returns all announcements, newest first
func (h *AnnouncementHandler) GetAnnouncements(c *gin.Context) {
	var announcements []models.Announcement
	if err := h.db.Preload("User").Order("created_at desc").Find(&announcements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch announcements"})
		return
	}

	if announcements == nil {
		announcements = []models.Announcement{}
	}

	c.JSON(http.StatusOK, announcements)
}

// CreateAnnouncement publishes a new announcement (ADMIN)
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	var input struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
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

	announcement := models.Announcement{
		Title:       input.Title,
		Description: input.Description,
		AuthorID:    authorID,
	}

	if err := h.db.Create(&announcement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create announcement"})
		return
	}

	go h.notifier.AnnouncementPublished(announcement.Title)

	h.db.Preload("User").First(&announcement, announcement.ID)
	c.JSON(http.StatusCreated, announcement)
}

// AnnouncementsCount returns the number of announcements
func (h *AnnouncementHandler) AnnouncementsCount(c *gin.Context) {
	var count int64
	h.db.Model(&models.Announcement{}).Count(&count)
	c.JSON(http.StatusOK, gin.H{"count": count})
}
