package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medconnect/internal/config"
	"medconnect/internal/handlers"
	"medconnect/internal/middleware"
	"medconnect/internal/models"
	"medconnect/internal/utils"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) error {
	if err := utils.UseWithGin(); err != nil {
		return err
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret, time.Duration(cfg.JWTExpirationMinutes)*time.Minute)
	userHandler := handlers.NewUserHandler(db)
	doctorHandler := handlers.NewDoctorHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db)
	healthRecordHandler := handlers.NewHealthRecordHandler(appointmentHandler)
	postHandler := handlers.NewPostHandler(db)
	socialHandler := handlers.NewSocialHandler(userHandler)

	adminOnly := middleware.RoleAuthMiddleware(models.RoleAdmin)

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/login", authHandler.Login)
		public.GET("/users/search", userHandler.SearchUsers)
	}

	// Authenticated routes
	private := router.Group("/api")
	private.Use(middleware.AuthMiddleware(db, cfg.JWTSecret))
	{
		book := private.Group("/book")
		{
			book.POST("/appointments/book/:userId", appointmentHandler.BookAppointment)
			book.GET("/my-appointments", appointmentHandler.MyAppointments)
			book.GET("/doctor/:doctorId", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), appointmentHandler.DoctorAppointments)
			book.GET("/all-appointments", adminOnly, appointmentHandler.AllAppointments)
			book.PUT("/appointments/:id", appointmentHandler.UpdateAppointmentStatus)
			book.DELETE("/appointment/:id", adminOnly, appointmentHandler.DeleteAppointment)

			book.GET("/health-record/:appointmentId", healthRecordHandler.GetHealthRecord)
			book.POST("/health-record/:appointmentId", middleware.RoleAuthMiddleware(models.RoleDoctor), healthRecordHandler.SaveHealthRecord)
		}

		doctor := private.Group("/doctor")
		{
			doctor.POST("/apply-doctor", doctorHandler.ApplyDoctor)
			doctor.PUT("/verify-doctor/:id", adminOnly, doctorHandler.VerifyDoctor)
		}

		posts := private.Group("/videoposts")
		{
			posts.POST("", postHandler.CreatePost)
			posts.GET("", postHandler.ListPosts)
			posts.GET("/:id", postHandler.GetPost)
			posts.GET("/video/:id", postHandler.GetVideo)
			posts.PUT("/:id", postHandler.UpdatePost)
			posts.DELETE("/:id", postHandler.DeletePost)
			posts.PUT("/like/:postId", postHandler.LikePost)
			posts.GET("/comments/:postId", postHandler.GetComments)
			posts.POST("/comment/:postId", postHandler.AddComment)
			posts.DELETE("/comment/:commentId", postHandler.DeleteComment)
		}

		private.POST("/users/follow/:id", socialHandler.Follow)
		private.POST("/users/unfollow/:id", socialHandler.Unfollow)
		// profiles are readable by any signed-in user despite the admin prefix
		private.GET("/admin/profile/:id", socialHandler.GetProfile)

		review := private.Group("/review")
		{
			review.POST("", socialHandler.AddReview)
			review.GET("/:userId", socialHandler.ListReviews)
			review.DELETE("/:id", socialHandler.DeleteReview)
		}

		admin := private.Group("/admin")
		admin.Use(adminOnly)
		{
			admin.GET("/users", userHandler.GetUsers)
			admin.DELETE("/deleteuser/:id", userHandler.DeleteUser)
			admin.PUT("/promoteuser/:id", userHandler.PromoteUser)
			admin.GET("/doctorapprove", doctorHandler.ListApplications)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	return nil
}
