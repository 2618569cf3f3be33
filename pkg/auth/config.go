package auth

import "time"

const (
	// DefaultPrefix is the Redis key prefix for the stored access token.
	DefaultPrefix = "diary:auth:"
	// TokenKey is the storage key of the access token, shared with the web client.
	TokenKey = "jwt_token"
)

// Config controls where the client keeps its access token.
// TTL overrides the token's own expiry when positive.
type Config struct {
	Prefix string
	TTL    time.Duration
}

// Defaults fills zero values.
func (c *Config) Defaults() {
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.TTL < 0 {
		c.TTL = 0
	}
}
