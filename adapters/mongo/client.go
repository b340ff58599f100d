package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	defaultDatabase       = "mockview"
	defaultMaxPoolSize    = 10
	defaultConnectTimeout = 10 * time.Second
)

// Config holds the connection settings for MongoDB
// Required fields:
// - URI: mongodb:// or mongodb+srv:// connection string
// Optional fields with defaults:
// - Database: database holding interviews and answers (default: mockview)
// - MaxPoolSize: connection pool ceiling (default: 10)
// - ConnectTimeout: bound on connect and the initial ping (default: 10s)
type Config struct {
	URI            string
	Database       string
	MaxPoolSize    uint64
	ConnectTimeout time.Duration
}

// ValidateConfig validates the Config
func ValidateConfig(config Config) error {
	if config.URI == "" {
		return fmt.Errorf("MongoDB URI is required")
	}
	if !strings.HasPrefix(config.URI, "mongodb://") && !strings.HasPrefix(config.URI, "mongodb+srv://") {
		return fmt.Errorf("MongoDB URI must use the mongodb:// or mongodb+srv:// scheme")
	}
	return nil
}

// Client owns the driver connection and the interview database
type Client struct {
	client   *mongo.Client
	Database *mongo.Database
	logger   *zap.Logger
}

// NewClient connects and pings the primary before returning
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	if config.Database == "" {
		config.Database = defaultDatabase
		logger.Info("Using default MongoDB database", zap.String("database", config.Database))
	}
	if config.MaxPoolSize == 0 {
		config.MaxPoolSize = defaultMaxPoolSize
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = defaultConnectTimeout
	}

	clientOptions := options.Client().
		ApplyURI(config.URI).
		SetAppName("mockview").
		SetMaxPoolSize(config.MaxPoolSize).
		SetServerSelectionTimeout(config.ConnectTimeout / 2).
		SetConnectTimeout(config.ConnectTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), config.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("Connected to MongoDB", zap.String("database", config.Database))
	return &Client{
		client:   client,
		Database: client.Database(config.Database),
		logger:   logger,
	}, nil
}

// Close disconnects, waiting for in-flight operations until ctx is done
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect MongoDB: %w", err)
	}
	c.logger.Info("Disconnected from MongoDB")
	return nil
}
