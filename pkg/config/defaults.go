package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "kairooms"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "5000"
	DefaultLogLevel = "info"

	DefaultJWTTTL = 24 * time.Hour

	DefaultFrontendURL = "http://localhost:3000"
	DefaultAPIBaseURL  = "http://localhost:5000"

	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587

	DefaultUploadDir = "uploads"

	DefaultEventsTopic = "kairooms.events"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 5 * 1024 * 1024 // avatars go through here

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)

// VerificationCodeLength is the number of hex characters in an email
// verification code.
const VerificationCodeLength = 6

// ResetTokenTTL is the validity window of a password reset token.
const ResetTokenTTL = 1 * time.Hour
