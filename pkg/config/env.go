package config

const (
	EnvMongoURI          = "BOOKLY_MONGO_URI"
	EnvMongoDatabaseName = "BOOKLY_MONGO_DATABASE"
	EnvMongoConnTimeout  = "BOOKLY_MONGO_CONN_TIMEOUT"

	EnvPort = "BOOKLY_PORT"

	EnvIdentityServiceURL     = "BOOKLY_IDENTITY_URL"
	EnvIdentityServiceTimeout = "BOOKLY_IDENTITY_TIMEOUT"

	EnvRateLimitRequests = "BOOKLY_RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "BOOKLY_RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "BOOKLY_REQUEST_TIMEOUT"
	EnvMaxRequestSize = "BOOKLY_MAX_REQUEST_SIZE"

	EnvReadTimeout     = "BOOKLY_READ_TIMEOUT"
	EnvWriteTimeout    = "BOOKLY_WRITE_TIMEOUT"
	EnvIdleTimeout     = "BOOKLY_IDLE_TIMEOUT"
	EnvShutdownTimeout = "BOOKLY_SHUTDOWN_TIMEOUT"

	EnvDefaultSlotDurationMin = "BOOKLY_DEFAULT_SLOT_DURATION_MIN"
	EnvDefaultStartTime       = "BOOKLY_DEFAULT_START_TIME"
	EnvDefaultEndTime         = "BOOKLY_DEFAULT_END_TIME"

	EnvLogLevel = "BOOKLY_LOG_LEVEL"
)
