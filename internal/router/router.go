package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quizdeck/quizdeck-gateway/internal/config"
	"github.com/quizdeck/quizdeck-gateway/internal/handler"
	"github.com/quizdeck/quizdeck-gateway/internal/middleware"
	"github.com/quizdeck/quizdeck-gateway/internal/model"
	"github.com/quizdeck/quizdeck-gateway/internal/response"
	"github.com/quizdeck/quizdeck-gateway/internal/session"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Student  *handler.StudentHandler
	Teacher  *handler.TeacherHandler
	Question *handler.QuestionHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	sessions session.Store,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	// Credentials are required for the session cookie.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	requireSession := middleware.RequireSession(sessions, cfg.SessionCookie)

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/register", handlers.Auth.Register)

		// Authenticated profile routes
		auth.POST("/logout", requireSession, handlers.Auth.Logout)
		auth.GET("/me", requireSession, handlers.Auth.Me)
	}

	// ─── 2. Student Group (Session + Role) ─────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		requireSession,
		middleware.RequireRole(model.RoleStudent),
	)
	{
		studentAPI.GET("/quizzes", handlers.Student.ListAssigned)
		studentAPI.GET("/quizzes/:quiz_id", handlers.Student.GetQuiz)
		studentAPI.POST("/quizzes/:quiz_id/attempts", handlers.Student.StartAttempt)

		studentAPI.GET("/attempts/:attempt_id", handlers.Student.GetAttempt)
		studentAPI.POST("/attempts/:attempt_id/answer", handlers.Student.Answer)
		studentAPI.POST("/attempts/:attempt_id/next", handlers.Student.Next)
		studentAPI.POST("/attempts/:attempt_id/previous", handlers.Student.Previous)
		studentAPI.POST("/attempts/:attempt_id/finish", handlers.Student.Finish)
		studentAPI.GET("/attempts/:attempt_id/result", handlers.Student.Result)
	}

	// ─── 3. Teacher Group (Session + Role) ─────────────────────────────
	teacherAPI := router.Group("/api/v1/teacher")
	teacherAPI.Use(
		requireSession,
		middleware.RequireRole(model.RoleTeacher),
	)
	{
		// Quiz management
		teacherAPI.GET("/quizzes/summary", handlers.Teacher.Summary)
		teacherAPI.POST("/quizzes", handlers.Teacher.CreateQuiz)
		teacherAPI.DELETE("/quizzes/:quiz_id", handlers.Teacher.DeleteQuiz)
		teacherAPI.GET("/quizzes/:quiz_id/attempts", handlers.Teacher.QuizAttempts)

		// Question management
		teacherAPI.GET("/quizzes/:quiz_id/questions", handlers.Question.ListQuestions)
		teacherAPI.DELETE("/questions/:question_id", handlers.Question.DeleteQuestion)

		// Authoring wizard
		teacherAPI.GET("/quizzes/:quiz_id/wizard", handlers.Question.WizardState)
		teacherAPI.POST("/quizzes/:quiz_id/wizard/advance", handlers.Question.WizardAdvance)
		teacherAPI.POST("/quizzes/:quiz_id/wizard/back", handlers.Question.WizardBack)
		teacherAPI.POST("/quizzes/:quiz_id/wizard/reset", handlers.Question.WizardReset)
		teacherAPI.POST("/quizzes/:quiz_id/wizard/save", handlers.Question.WizardSave)
	}

	return router
}
