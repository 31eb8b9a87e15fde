package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Port:           "8000",
		Env:            "development",
		JWTSecret:      "secure-secret-at-least-32-chars-long",
		JWTTTLMinutes:  60,
		DBPassword:     "secure-password",
		DBSSLMode:      "disable",
		VectorBackend:  "qdrant",
		EmbedDimension: 384,
		S3AccessKey:    "access",
		S3SecretKey:    "secret",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"Valid development config", func(c *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing JWT secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"Zero token TTL", func(c *Config) { c.JWTTTLMinutes = 0 }, true},
		{"Zero embedding dimension", func(c *Config) { c.EmbedDimension = 0 }, true},
		{"Unknown vector backend", func(c *Config) { c.VectorBackend = "pinecone" }, true},
		{"Memory backend in development", func(c *Config) { c.VectorBackend = "memory" }, false},
		{"Unknown summarizer", func(c *Config) { c.Summarizer = "magic" }, true},
		{"LLM summarizer", func(c *Config) { c.Summarizer = "llm" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateProduction(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"Valid production config", func(c *Config) {}, false},
		{"Default JWT secret", func(c *Config) { c.JWTSecret = "your-secret-key-change-in-production" }, true},
		{"Short JWT secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"Default DB password", func(c *Config) { c.DBPassword = "password" }, true},
		{"Missing S3 credentials", func(c *Config) { c.S3AccessKey = "" }, true},
		{"Memory vector backend", func(c *Config) { c.VectorBackend = "memory" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = "production"
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
