package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/circlesync/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("circlesync_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(connStr), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
	))

	return db
}

// A failing vote cleanup must abort the delete and report it, leaving
// the post in place.
func TestDeletePostSurfacesVoteCleanupFailure(t *testing.T) {
	db := setupTestDB(t)
	gin.SetMode(gin.TestMode)

	user := models.User{Name: "a", Email: "a@example.com", Password: "x", Role: models.RoleBronze}
	require.NoError(t, db.Create(&user).Error)
	post := models.Post{Title: "p", AuthorID: user.ID}
	require.NoError(t, db.Create(&post).Error)

	// Break the cleanup path.
	require.NoError(t, db.Migrator().DropTable(&models.Vote{}))

	handler := NewPostHandler(db)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", user.ID) })
	r.DELETE("/posts/:id", handler.DeletePost)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/posts/%d", post.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var survivor models.Post
	assert.NoError(t, db.First(&survivor, post.ID).Error)
}

func TestDeleteReportedCommentSurfacesVoteCleanupFailure(t *testing.T) {
	db := setupTestDB(t)
	gin.SetMode(gin.TestMode)

	user := models.User{Name: "a", Email: "a@example.com", Password: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&user).Error)
	post := models.Post{Title: "p", AuthorID: user.ID}
	require.NoError(t, db.Create(&post).Error)
	comment := models.Comment{
		Body:         "c",
		AuthorID:     user.ID,
		PostID:       post.ID,
		ReportStatus: models.ReportReported,
	}
	require.NoError(t, db.Create(&comment).Error)

	require.NoError(t, db.Migrator().DropTable(&models.Vote{}))

	handler := NewCommentHandler(db)
	r := gin.New()
	r.DELETE("/comments/reported/:commentId", handler.DeleteReportedComment)

	req := httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/comments/reported/%d", comment.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var survivor models.Comment
	assert.NoError(t, db.First(&survivor, comment.ID).Error)
}
