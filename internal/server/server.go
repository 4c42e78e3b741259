package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/circlesync/backend/internal/database"
	"github.com/circlesync/backend/internal/handlers"
	"github.com/circlesync/backend/internal/middleware"
	"github.com/circlesync/backend/internal/notify"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Bootstrap the schema over a plain connection first
	bootstrap, err := database.NewDatabase()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := bootstrap.Initialize(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}
	bootstrap.Close()

	// GORM connection used by the handlers
	db := database.New()

	// Create unified handler
	handler := handlers.NewHandler(db, notify.New())

	// Create server instance
	newServer := &Server{
		db:      db,
		handler: handler,
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestID())

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Post routes (public reads)
		api.GET("/posts", s.handler.Post.GetPosts)
		api.GET("/posts/:id", s.handler.Post.GetPost)
		api.GET("/totalPostsCount", s.handler.Post.TotalPostsCount)
		api.GET("/taggedPosts", s.handler.Post.TaggedPosts)

		// Comment routes (public reads)
		api.GET("/posts/:id/comments", s.handler.Comment.GetComments)
		api.GET("/posts/:id/commentsCount", s.handler.Comment.PostCommentsCount)

		// Tag and announcement routes (public reads)
		api.GET("/tags", s.handler.Tag.GetTags)
		api.GET("/announcements", s.handler.Announcement.GetAnnouncements)
		api.GET("/announcementsCount", s.handler.Announcement.AnnouncementsCount)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Auth protected routes
			protected.GET("/me", s.handler.Auth.GetMe)

			// Post protected routes
			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.DELETE("/posts/:id", s.handler.Post.DeletePost)
			protected.GET("/users/:id/posts", s.handler.Post.GetUserPosts)
			protected.GET("/postsCount", s.handler.Post.PostsCount)

			// Vote routes
			protected.POST("/posts/:id/upvote", s.handler.Vote.UpvotePost)
			protected.POST("/posts/:id/downvote", s.handler.Vote.DownvotePost)
			protected.GET("/posts/:id/vote", s.handler.Vote.PostVoteState)
			protected.POST("/comments/:commentId/upvote", s.handler.Vote.UpvoteComment)
			protected.POST("/comments/:commentId/downvote", s.handler.Vote.DownvoteComment)
			protected.GET("/comments/:commentId/vote", s.handler.Vote.CommentVoteState)

			// Comment protected routes
			protected.POST("/posts/:id/comments", s.handler.Comment.CreateComment)
			protected.PUT("/comments/:commentId", s.handler.Comment.UpdateComment)
			protected.POST("/comments/:commentId/report", s.handler.Comment.ReportComment)
			protected.GET("/commentsCount", s.handler.Comment.CommentsCount)

			// Membership
			protected.PUT("/updateUserRole", s.handler.User.UpgradeMyRole)

			// Admin routes (role checked against the database)
			admin := protected.Group("/admin")
			admin.Use(middleware.AdminMiddleware(s.db.GetDB()))
			{
				admin.GET("/users", s.handler.User.GetUsers)
				admin.PUT("/users/:id", s.handler.User.UpdateUserRole)
				admin.GET("/usersCount", s.handler.User.UsersCount)
				admin.GET("/goldUsersCount", s.handler.User.GoldUsersCount)

				admin.GET("/totalCommentsCount", s.handler.Comment.TotalCommentsCount)
				admin.GET("/reportedComments", s.handler.Comment.ReportedComments)
				admin.GET("/reportedCommentsCount", s.handler.Comment.ReportedCommentsCount)
				admin.PUT("/reportedComments/:commentId", s.handler.Comment.ResolveReportedComment)
				admin.DELETE("/reportedComments/:commentId", s.handler.Comment.DeleteReportedComment)

				admin.POST("/tags", s.handler.Tag.CreateTag)
				admin.POST("/announcements", s.handler.Announcement.CreateAnnouncement)

				admin.POST("/posts/:id/reconcile", s.handler.Vote.ReconcilePost)
				admin.POST("/comments/:commentId/reconcile", s.handler.Vote.ReconcileComment)
			}
		}
	}

	return r
}
