// Copyright 2025 Appalti
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"fmt"
	"strings"
	"time"
)

// Config holds configuration for the embedding provider.
type Config struct {
	// Host is the base URL for the embedding service API.
	// Example: "https://api.openai.com/v1", or a local
	// OpenAI-compatible server such as "http://localhost:11434/v1".
	Host string

	// Model is the model identifier to use for text embeddings.
	// Example: "text-embedding-3-small", "embeddinggemma".
	Model string

	// Tokens supplies the API credential. Defaults to StaticToken("none")
	// for local services that do not require authentication.
	Tokens TokenSource

	// RequestTimeout bounds each outbound provider call. The embedder
	// derives a deadline from it so a stalled provider surfaces as
	// ErrProvider instead of hanging the caller.
	RequestTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the embedding service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithTokenSource sets the credential source for the provider.
func WithTokenSource(tokens TokenSource) ConfigOption {
	return func(c *Config) {
		c.Tokens = tokens
	}
}

// WithToken sets a static credential for the provider.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Tokens = StaticToken(token)
	}
}

// WithRequestTimeout sets the per-call provider timeout.
func WithRequestTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestTimeout = timeout
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services.
func DefaultConfig() *Config {
	return &Config{
		Host:           "http://localhost:11434/v1",
		Model:          "text-embedding-3-small",
		Tokens:         StaticToken("none"),
		RequestTimeout: 30 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Validate checks the configuration and normalizes the host URL.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	c.Host = strings.TrimRight(strings.TrimSpace(c.Host), "/")
	if c.Host == "" {
		return fmt.Errorf("%w: host required", ErrConfigInvalid)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: model required", ErrConfigInvalid)
	}
	if c.Tokens == nil {
		c.Tokens = StaticToken("none")
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	return nil
}
