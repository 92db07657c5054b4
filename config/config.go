package config

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const devJWTSecret = "kitchen-dev-secret"

// Config is the union of the settings read by the services. Each service
// only looks at the fields it needs.
type Config struct {
	Port          string
	PublicBaseURL string
	UploadDir     string

	JWTSecret  string
	SessionTTL time.Duration

	AdminEmail    string
	AdminPassword string

	MongoURI string
	MongoDB  string

	CatalogSvcURL   string
	OrderSvcURL     string
	AuthSvcURL      string
	AnalyticsSvcURL string
}

// Load reads an optional .env file and then the process environment.
func Load(defaultPort string) Config {
	_ = godotenv.Load()

	return Config{
		Port:            GetEnv("PORT", defaultPort),
		PublicBaseURL:   strings.TrimRight(GetEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		UploadDir:       GetEnv("UPLOAD_DIR", "./uploads"),
		JWTSecret:       GetEnv("JWT_SECRET", devJWTSecret),
		SessionTTL:      GetDuration("SESSION_TTL", 12*time.Hour),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		MongoURI:        GetEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         GetEnv("MONGO_DB", "kitchen"),
		CatalogSvcURL:   GetEnv("CATALOG_SVC_URL", "http://localhost:8081"),
		OrderSvcURL:     GetEnv("ORDER_SVC_URL", "http://localhost:8082"),
		AuthSvcURL:      GetEnv("AUTH_SVC_URL", "http://localhost:8084"),
		AnalyticsSvcURL: GetEnv("ANALYTICS_SVC_URL", "http://localhost:8083"),
	}
}

// UsesDevSecret reports whether no JWT_SECRET was configured.
func (c Config) UsesDevSecret() bool {
	return c.JWTSecret == devJWTSecret
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// NewLogger builds the JSON logger every service writes to stdout.
func NewLogger(service string) zerolog.Logger {
	level, err := zerolog.ParseLevel(GetEnv("LOG_LEVEL", "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

func MustInitPostgres(logger zerolog.Logger) *sql.DB {
	connStr := "host=" + GetEnv("DB_HOST", "localhost") +
		" port=" + GetEnv("DB_PORT", "5432") +
		" user=" + GetEnv("DB_USER", "postgres") +
		" password=" + os.Getenv("DB_PASSWORD") +
		" dbname=" + GetEnv("DB_NAME", "kitchen") +
		" sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err = db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping database")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(logger zerolog.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: GetEnv("REDIS_HOST", "localhost") + ":" + GetEnv("REDIS_PORT", "6379"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}

	return client
}

func MustInitMongo(ctx context.Context, logger zerolog.Logger, cfg Config) *mongo.Database {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping mongodb")
	}

	return client.Database(cfg.MongoDB)
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{GetEnv("KAFKA_BROKER", "localhost:9092")},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(GetEnv("KAFKA_BROKER", "localhost:9092")),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}
