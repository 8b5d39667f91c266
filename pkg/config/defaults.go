package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "bookly"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultIdentityServiceURL     = "http://localhost:8090"
	DefaultIdentityServiceTimeout = 5 * time.Second

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = time.Minute

	DefaultRequestTimeout = 15 * time.Second
	DefaultMaxRequestSize = 1 << 20

	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	// Booking defaults match the configuration document created on first
	// run: half-hour slots over a 09:00-21:00 working day.
	DefaultSlotDurationMin = 30
	DefaultStartTime       = "09:00"
	DefaultEndTime         = "21:00"

	DefaultLogLevel = "info"
)

// SlotDurations is the closed set of allowed slot granularities.
var SlotDurations = []int{15, 30}
