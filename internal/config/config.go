package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	Env             string
	MongoURI        string
	MongoDB         string
	RedisAddr       string
	RabbitURL       string
	EventsExchange  string
	JWKSURL         string
	WebhookSecret   string
	SentryDSN       string
	CORSOrigin      string
	S3Bucket        string
	AWSRegion       string
	RateLimitPerMin int
	PresenceTTLSec  int
}

func Load() Config {
	return Config{
		Port:            getenv("APP_PORT", "8080"),
		Env:             getenv("APP_ENV", "dev"),
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getenv("MONGO_DB", "social_db"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RabbitURL:       getenv("RABBIT_URL", ""),
		EventsExchange:  getenv("EVENTS_EXCHANGE", "social.events"),
		JWKSURL:         getenv("IDP_JWKS_URL", "http://localhost:8081/.well-known/jwks.json"),
		WebhookSecret:   getenv("IDP_WEBHOOK_SECRET", ""),
		SentryDSN:       getenv("SENTRY_DSN", ""),
		CORSOrigin:      getenv("CORS_ORIGIN", "http://localhost:5173"),
		S3Bucket:        getenv("S3_BUCKET_NAME", ""),
		AWSRegion:       getenv("AWS_REGION", "us-east-1"),
		RateLimitPerMin: atoi(getenv("RATE_LIMIT_PER_MIN", "60")),
		PresenceTTLSec:  atoi(getenv("PRESENCE_TTL_SEC", "300")),
	}
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
