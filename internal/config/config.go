package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Dedup strategies selectable via config.
const (
	StrategySeenSet   = "seenset"
	StrategyWatermark = "watermark"
)

type Config struct {
	Source   SourceConfig  `yaml:"source"`
	Gateway  GatewayConfig `yaml:"gateway"`
	Dedup    DedupConfig   `yaml:"dedup"`
	Notify   NotifyConfig  `yaml:"notify"`
	Events   EventsConfig  `yaml:"events"`
	LogLevel string        `yaml:"log_level"`
}

type SourceConfig struct {
	Subreddit      string        `yaml:"subreddit"`
	Limit          int           `yaml:"limit"`
	Timeout        time.Duration `yaml:"timeout"`
	UserAgent      string        `yaml:"user_agent"`
	MergePushshift bool          `yaml:"merge_pushshift"`
	RedditBaseURL  string        `yaml:"reddit_base_url"`
	PushshiftURL   string        `yaml:"pushshift_url"`
}

type GatewayConfig struct {
	Token   string        `yaml:"token"`
	User    string        `yaml:"user"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type DedupConfig struct {
	Strategy string `yaml:"strategy"`
	Path     string `yaml:"path"`
}

type NotifyConfig struct {
	Interval     time.Duration `yaml:"interval"`
	CycleTimeout time.Duration `yaml:"cycle_timeout"`
	MaxAttempts  int           `yaml:"max_attempts"`
	RetryDelay   time.Duration `yaml:"retry_delay"`
}

// EventsConfig configures the optional delivery-event publisher. Publishing
// is disabled when URL is empty.
type EventsConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

// Validate reports missing or unusable required fields. Callers treat any
// error as fatal at startup.
func (c *Config) Validate() error {
	if c.Gateway.Token == "" {
		return errors.New("gateway.token is required")
	}
	if c.Gateway.User == "" {
		return errors.New("gateway.user is required")
	}
	if c.Source.Subreddit == "" {
		return errors.New("source.subreddit is required")
	}
	switch c.Dedup.Strategy {
	case StrategySeenSet, StrategyWatermark:
	default:
		return fmt.Errorf("dedup.strategy must be %q or %q, got %q",
			StrategySeenSet, StrategyWatermark, c.Dedup.Strategy)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Source.Limit == 0 {
		c.Source.Limit = 50
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = 10 * time.Second
	}
	if c.Source.UserAgent == "" {
		c.Source.UserAgent = "sub-notifier/1.0"
	}
	if c.Source.RedditBaseURL == "" {
		c.Source.RedditBaseURL = "https://api.reddit.com"
	}
	if c.Source.PushshiftURL == "" {
		c.Source.PushshiftURL = "https://api.pushshift.io/reddit/submission/search"
	}
	if c.Gateway.URL == "" {
		c.Gateway.URL = "https://api.pushover.net/1/messages.json"
	}
	if c.Gateway.Timeout == 0 {
		c.Gateway.Timeout = 10 * time.Second
	}
	if c.Dedup.Strategy == "" {
		c.Dedup.Strategy = StrategySeenSet
	}
	if c.Dedup.Path == "" {
		c.Dedup.Path = "seen.db"
	}
	if c.Notify.Interval == 0 {
		c.Notify.Interval = 10 * time.Second
	}
	if c.Notify.CycleTimeout == 0 {
		c.Notify.CycleTimeout = 1 * time.Minute
	}
	if c.Notify.MaxAttempts == 0 {
		c.Notify.MaxAttempts = 3
	}
	if c.Notify.RetryDelay == 0 {
		c.Notify.RetryDelay = 1 * time.Second
	}
	if c.Events.Exchange == "" {
		c.Events.Exchange = "sub_notifier"
	}
	if c.Events.RoutingKey == "" {
		c.Events.RoutingKey = "deliveries"
	}
	if c.Events.QueueName == "" {
		c.Events.QueueName = "delivered_posts"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
