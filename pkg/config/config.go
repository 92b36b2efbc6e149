// Copyright 2025 Sander Nunes
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

package config

import (
	"fmt"
	"time"

	"github.com/SanderNunes/cellito-engine/pkg/rag"
)

// Config is the root configuration for the engine.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
	Server    ServerConfig    `yaml:"server,omitempty"`
	Corpus    CorpusConfig    `yaml:"corpus,omitempty"`
	Cache     CacheConfig     `yaml:"cache,omitempty"`
	Retrieval RetrievalConfig `yaml:"retrieval,omitempty"`
	LLM       LLMConfig       `yaml:"llm,omitempty"`
	WebSearch WebSearchConfig `yaml:"web_search,omitempty"`
	Feedback  FeedbackConfig  `yaml:"feedback,omitempty"`
	Engine    EngineConfig    `yaml:"engine,omitempty"`
}

// SetDefaults applies default values to all sections.
func (c *Config) SetDefaults() {
	c.Logging.SetDefaults()
	c.Server.SetDefaults()
	c.Corpus.SetDefaults()
	c.Cache.SetDefaults()
	c.Retrieval.SetDefaults()
	c.LLM.SetDefaults()
	c.WebSearch.SetDefaults()
	c.Feedback.SetDefaults()
	c.Engine.SetDefaults()
}

// Validate checks the full configuration for errors.
func (c *Config) Validate() error {
	if err := c.Retrieval.Validate(); err != nil {
		return fmt.Errorf("retrieval: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	Output string `yaml:"output,omitempty"`
}

// SetDefaults applies default values.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "text"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host      string          `yaml:"host,omitempty"`
	Port      int             `yaml:"port,omitempty"`
	RateLimit RateLimitConfig `yaml:"rate_limit,omitempty"`
}

// SetDefaults applies default values.
func (c *ServerConfig) SetDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	c.RateLimit.SetDefaults()
}

// Validate checks the configuration for errors.
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	return c.RateLimit.Validate()
}

// RateLimitConfig caps requests per client on the HTTP API.
type RateLimitConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`

	// Requests allowed per client within one Window.
	Requests int      `yaml:"requests,omitempty"`
	Window   Duration `yaml:"window,omitempty"`
}

// SetDefaults applies default values.
func (c *RateLimitConfig) SetDefaults() {
	if c.Enabled == nil {
		c.Enabled = BoolPtr(false)
	}
	if c.Requests == 0 {
		c.Requests = 60
	}
	if c.Window == 0 {
		c.Window = Duration(time.Minute)
	}
}

// Validate checks the configuration for errors.
func (c *RateLimitConfig) Validate() error {
	if c.Requests < 0 {
		return fmt.Errorf("rate limit requests must not be negative, got %d", c.Requests)
	}
	return nil
}

// Address returns the host:port listen address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CorpusConfig configures the document sources.
type CorpusConfig struct {
	// ArticlesDir holds knowledge-base articles (markdown, text).
	ArticlesDir string `yaml:"articles_dir,omitempty"`

	// FilesDir holds generic files (pdf, docx, xlsx, text).
	FilesDir string `yaml:"files_dir,omitempty"`

	// Watch enables filesystem watching for corpus changes.
	Watch *bool `yaml:"watch,omitempty"`
}

// SetDefaults applies default values.
func (c *CorpusConfig) SetDefaults() {
	if c.ArticlesDir == "" {
		c.ArticlesDir = "./corpus/articles"
	}
	if c.FilesDir == "" {
		c.FilesDir = "./corpus/files"
	}
	if c.Watch == nil {
		c.Watch = BoolPtr(false)
	}
}

// CacheConfig configures durable index persistence.
type CacheConfig struct {
	// Dir is where cache records are written as JSON files.
	Dir string `yaml:"dir,omitempty"`
}

// SetDefaults applies default values.
func (c *CacheConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "./.cellito-cache"
	}
}

// RetrievalConfig configures indexing and chunk selection.
type RetrievalConfig struct {
	// Articles configures indexing for the article corpus.
	Articles rag.IndexerConfig `yaml:"articles,omitempty"`

	// Files configures indexing for the generic file corpus.
	Files rag.IndexerConfig `yaml:"files,omitempty"`

	// Selector configures per-query chunk selection.
	Selector rag.SelectorConfig `yaml:"selector,omitempty"`
}

// SetDefaults applies default values. Articles default to the larger
// chunk budget, files to the smaller one.
func (c *RetrievalConfig) SetDefaults() {
	if c.Articles.Chunking.TargetSize == 0 {
		c.Articles.Chunking = rag.DefaultChunkerConfig()
	}
	if c.Files.Chunking.TargetSize == 0 {
		c.Files.Chunking = rag.FileChunkerConfig()
	}
	c.Articles.SetDefaults()
	c.Files.SetDefaults()
	c.Selector.SetDefaults()
}

// Validate checks the configuration for errors.
func (c *RetrievalConfig) Validate() error {
	if err := c.Articles.Validate(); err != nil {
		return fmt.Errorf("articles: %w", err)
	}
	if err := c.Files.Validate(); err != nil {
		return fmt.Errorf("files: %w", err)
	}
	return nil
}

// LLMConfig configures the chat completion provider.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	Model    string `yaml:"model,omitempty"`

	// Temperature stays low so repeated identical queries produce
	// reproducible answers.
	Temperature float64 `yaml:"temperature,omitempty"`

	// Seed fixes the sampling seed for the same reason.
	Seed      *int     `yaml:"seed,omitempty"`
	MaxTokens int      `yaml:"max_tokens,omitempty"`
	Timeout   Duration `yaml:"timeout,omitempty"`
}

// SetDefaults applies default values.
func (c *LLMConfig) SetDefaults() {
	if c.Provider == "" {
		c.Provider = "openai"
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.2
	}
	if c.Seed == nil {
		seed := 42
		c.Seed = &seed
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 1024
	}
	if c.Timeout == 0 {
		c.Timeout = Duration(30 * time.Second)
	}
}

// Validate checks the configuration for errors.
func (c *LLMConfig) Validate() error {
	if c.Temperature < 0 || c.Temperature > 0.3 {
		return fmt.Errorf("temperature must be in [0, 0.3] for reproducible answers, got %g", c.Temperature)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}

// WebSearchConfig configures the web search collaborator.
type WebSearchConfig struct {
	Enabled    *bool    `yaml:"enabled,omitempty"`
	Endpoint   string   `yaml:"endpoint,omitempty"`
	MaxResults int      `yaml:"max_results,omitempty"`
	Timeout    Duration `yaml:"timeout,omitempty"`
}

// SetDefaults applies default values.
func (c *WebSearchConfig) SetDefaults() {
	if c.Enabled == nil {
		c.Enabled = BoolPtr(false)
	}
	if c.MaxResults == 0 {
		c.MaxResults = 3
	}
	if c.Timeout == 0 {
		c.Timeout = Duration(30 * time.Second)
	}
}

// FeedbackConfig configures the QnA feedback store.
type FeedbackConfig struct {
	// Path is the sqlite database file. Empty selects the in-memory
	// store.
	Path string `yaml:"path,omitempty"`

	// MinConfidence gates which QnA records the shortcut may return.
	MinConfidence int `yaml:"min_confidence,omitempty"`

	// MinMatchScore is the floor below which no cached answer is used.
	MinMatchScore int `yaml:"min_match_score,omitempty"`
}

// SetDefaults applies default values.
func (c *FeedbackConfig) SetDefaults() {
	if c.MinConfidence == 0 {
		c.MinConfidence = 70
	}
	if c.MinMatchScore == 0 {
		c.MinMatchScore = 20
	}
}

// EngineConfig configures answer orchestration.
type EngineConfig struct {
	// WebTriggerConfidence triggers web search when internal confidence
	// falls below it.
	WebTriggerConfidence int `yaml:"web_trigger_confidence,omitempty"`
}

// SetDefaults applies default values.
func (c *EngineConfig) SetDefaults() {
	if c.WebTriggerConfidence == 0 {
		c.WebTriggerConfidence = 40
	}
}
