package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/satriahrh/mockview/adapters/gormstore"
	"github.com/satriahrh/mockview/adapters/llm"
	"github.com/satriahrh/mockview/adapters/mongo"
	"github.com/satriahrh/mockview/adapters/objectstore"
	"github.com/satriahrh/mockview/adapters/stt"
	"github.com/satriahrh/mockview/adapters/tts"
	"github.com/satriahrh/mockview/domain/repositories"
	"github.com/satriahrh/mockview/internal/api"
	"github.com/satriahrh/mockview/internal/auth"
	"github.com/satriahrh/mockview/internal/config"
	"github.com/satriahrh/mockview/internal/logging"
	"github.com/satriahrh/mockview/internal/videoupload"
	"github.com/satriahrh/mockview/internal/websocket"
	"github.com/satriahrh/mockview/usecase"
)

func main() {
	appConfig, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := logging.New(logging.Config{
		Level:       appConfig.LogLevel,
		Development: appConfig.IsDevelopment(),
		File:        appConfig.LogFile,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize adapters
	largeLanguageModel, err := newLargeLanguageModel(appConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize LLM", zap.Error(err))
	}
	speechToText, err := newSpeechToText(appConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize speech-to-text", zap.Error(err))
	}
	textToSpeech, err := newTextToSpeech(appConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize text-to-speech", zap.Error(err))
	}
	storage, err := newObjectStorage(appConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	interviews, answers, closeStore, err := newRepositories(appConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer closeStore()

	authenticator, err := auth.NewAuthenticator(appConfig.JWTSecret, 0)
	if err != nil {
		logger.Fatal("Failed to initialize authenticator", zap.Error(err))
	}

	// Initialize usecase services
	media := usecase.NewMediaService(speechToText, textToSpeech, logger)
	services := api.Services{
		Interviews: usecase.NewInterviewService(largeLanguageModel, interviews, answers, logger),
		Answers:    usecase.NewAnswerService(largeLanguageModel, answers, logger),
		Media:      media,
		Videos:     videoupload.NewUploader(storage, appConfig.VideoBucket, logger),
	}

	// Initialize WebSocket hub for streamed transcription
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := websocket.NewHub(media, logger)
	go hub.Run(hubCtx)

	// Initialize API routes
	api.InitRoutes(e, services, hub, authenticator, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(appConfig.Address()); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("address", appConfig.Address()),
		zap.String("llm", appConfig.LLMProvider),
		zap.String("stt", appConfig.STTProvider),
		zap.String("tts", appConfig.TTSProvider),
		zap.String("storage", appConfig.StorageProvider),
		zap.String("database", appConfig.DatabaseDriver))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")
	stopHub()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLargeLanguageModel(appConfig *config.AppConfig, logger *zap.Logger) (repositories.LargeLanguageModel, error) {
	switch appConfig.LLMProvider {
	case config.ProviderOpenAI:
		return llm.NewOpenAILLM(llm.NewOpenAIConfigFromEnv(), logger)
	case config.ProviderGemini:
		return llm.NewGeminiLLM(llm.NewGeminiConfigFromEnv(), logger)
	default:
		logger.Warn("Using demo LLM with canned replies")
		return llm.DemoLLM{}, nil
	}
}

func newSpeechToText(appConfig *config.AppConfig, logger *zap.Logger) (repositories.SpeechToText, error) {
	switch appConfig.STTProvider {
	case config.ProviderOpenAI:
		return stt.NewWhisperSpeechToText(stt.NewOpenAIConfigFromEnv(), logger)
	case config.ProviderGoogle:
		return stt.NewGoogleSpeechToText(logger), nil
	default:
		return stt.NewMockSpeechToText("This is a mock transcription.", logger), nil
	}
}

func newTextToSpeech(appConfig *config.AppConfig, logger *zap.Logger) (repositories.TextToSpeech, error) {
	switch appConfig.TTSProvider {
	case config.ProviderOpenAI:
		return tts.NewOpenAITTS(tts.NewOpenAIConfigFromEnv(), logger)
	case config.ProviderElevenLabs:
		return tts.NewElevenLabsTTS(tts.NewElevenLabsConfigFromEnv(), logger)
	default:
		return tts.NewMockTextToSpeech(nil), nil
	}
}

func newObjectStorage(appConfig *config.AppConfig, logger *zap.Logger) (repositories.ObjectStorage, error) {
	switch appConfig.StorageProvider {
	case config.ProviderSupabase:
		return objectstore.NewSupabaseStorage(objectstore.SupabaseConfig{
			URL:        appConfig.SupabaseURL,
			ServiceKey: appConfig.SupabaseServiceKey,
		}, logger)
	case config.ProviderS3:
		return objectstore.NewS3Storage(objectstore.S3Config{
			Region:          appConfig.S3Region,
			Endpoint:        appConfig.S3Endpoint,
			AccessKeyID:     appConfig.S3AccessKeyID,
			SecretAccessKey: appConfig.S3SecretAccessKey,
		}, logger)
	default:
		return objectstore.NewMemoryStorage(fmt.Sprintf("http://%s/videos", appConfig.Address())), nil
	}
}

func newRepositories(appConfig *config.AppConfig, logger *zap.Logger) (repositories.InterviewRepository, repositories.AnswerRepository, func(), error) {
	if appConfig.DatabaseDriver == config.DatabaseMongo {
		client, err := mongo.NewClient(mongo.Config{URI: appConfig.DatabaseDSN, Database: appConfig.MongoDatabase}, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(ctx); err != nil {
				logger.Error("Failed to close MongoDB client", zap.Error(err))
			}
		}
		return mongo.NewInterviewRepository(client.Database, logger), mongo.NewAnswerRepository(client.Database, logger), closeFn, nil
	}

	db, err := gormstore.Open(gormstore.Config{
		Driver:      appConfig.DatabaseDriver,
		DSN:         appConfig.DatabaseDSN,
		AutoMigrate: true,
	}, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return gormstore.NewInterviewRepository(db, logger), gormstore.NewAnswerRepository(db, logger), closeFn, nil
}
