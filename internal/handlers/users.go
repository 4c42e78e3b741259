package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/circlesync/backend/internal/models"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// GetUsers returns a page of users with optional name search (ADMIN)
func (h *UserHandler) GetUsers(c *gin.Context) {
	const pageSize = 10

	query := h.db.Order("created_at desc")
	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var users []models.User
	if err := query.Offset(skipParam(c) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	if users == nil {
		users = []models.User{}
	}

	c.JSON(http.StatusOK, users)
}

// UpdateUserRole changes another user's role (ADMIN)
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	userID := c.Param("id")

	var input struct {
		Role string `json:"role" binding:"required,oneof=bronze gold admin"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be bronze, gold or admin"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Role = input.Role
	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpgradeMyRole upgrades the caller to gold membership. Payment-intent
// creation happens in an external collaborator; this endpoint only
// records the outcome.
func (h *UserHandler) UpgradeMyRole(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Role = models.RoleGold
	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Membership upgraded", "role": user.Role})
}

// UsersCount returns the total number of users (ADMIN)
func (h *UserHandler) UsersCount(c *gin.Context) {
	var count int64
	h.db.Model(&models.User{}).Count(&count)
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// GoldUsersCount returns the number of gold members (ADMIN)
func (h *UserHandler) GoldUsersCount(c *gin.Context) {
	var count int64
	h.db.Model(&models.User{}).Where("role = ?", models.RoleGold).Count(&count)
	c.JSON(http.StatusOK, gin.H{"count": count})
}
