package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/mockview/internal/auth"
	"github.com/satriahrh/mockview/internal/videoupload"
	"github.com/satriahrh/mockview/internal/websocket"
	"github.com/satriahrh/mockview/usecase"
)

// Services are the use cases behind the HTTP API
type Services struct {
	Interviews *usecase.InterviewService
	Answers    *usecase.AnswerService
	Media      *usecase.MediaService
	Videos     *videoupload.Uploader
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, services Services, hub *websocket.Hub, authenticator *auth.Authenticator, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "mockview-server",
		})
	})

	requireUser := authenticator.Middleware(logger)
	h := &handlers{services: services, logger: logger}

	media := e.Group("/api", requireUser)
	media.POST("/transcribe", h.transcribe)
	media.POST("/tts", h.textToSpeech)

	v1 := e.Group("/api/v1", requireUser)
	v1.POST("/interviews", h.createInterview)
	v1.POST("/interviews/suggestions", h.suggestQuestions)
	v1.GET("/interviews", h.listInterviews)
	v1.GET("/interviews/:id", h.getInterview)
	v1.DELETE("/interviews/:id", h.deleteInterview)
	v1.POST("/interviews/:id/answers", h.submitAnswer)
	v1.GET("/interviews/:id/answers", h.listAnswers)
	v1.PUT("/interviews/:id/videos/:ordinal", h.uploadVideo)

	// WebSocket endpoint with JWT validation
	e.GET("/ws/transcribe", func(c echo.Context) error {
		logger.Info("WebSocket connection authenticated", zap.String("userEmail", auth.EmailFrom(c)))
		return websocket.HandleWebSocket(hub, c, auth.EmailFrom(c), logger)
	}, requireUser)
}
