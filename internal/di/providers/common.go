package providers

import "time"

const (
	// shutdownTimeout bounds the graceful HTTP shutdown.
	shutdownTimeout = 30 * time.Second

	// redisConnectTimeout bounds the startup ping against a remote redis.
	redisConnectTimeout = 10 * time.Second
)
