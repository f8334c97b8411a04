package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"

	configPathEnv    = "HARVESTER_CONFIG"
	databasePathEnv  = "HARVESTER_DB_PATH"
	openAIKeyEnv     = "OPENAI_API_KEY"
	yandexKeyEnv     = "YANDEX_API_KEY"
	youtubeKeyEnv    = "YOUTUBE_API_KEY"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Logging       LoggingConfig      `yaml:"logging"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
	Translate     TranslateConfig    `yaml:"translate"`
	ChatGPT       ChatGPTConfig      `yaml:"chatgpt"`
	YouTube       YouTubeConfig      `yaml:"youtube"`
	Harvest       HarvestConfig      `yaml:"harvest"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// DatabaseConfig describes the SQLite database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// PipelineConfig carries the language policy and retry limits for runs.
type PipelineConfig struct {
	PreferredLanguage  string `yaml:"preferredLanguage"`
	FallbackLanguage   string `yaml:"fallbackLanguage"`
	TopicID            int64  `yaml:"topicId"`
	MaxAttempts        int    `yaml:"maxAttempts"`
	BackoffBaseSeconds int    `yaml:"backoffBaseSeconds"`
}

// BackoffBase resolves the configured base backoff as a duration.
func (p PipelineConfig) BackoffBase() time.Duration {
	return time.Duration(p.BackoffBaseSeconds) * time.Second
}

// TranslateConfig selects and tunes the translation provider. ChunkSize zero
// means "use the provider's default" (500 for MyMemory, 8000 for Yandex).
type TranslateConfig struct {
	Provider    string         `yaml:"provider"`
	ChunkSize   int            `yaml:"chunkSize"`
	Concurrency int            `yaml:"concurrency"`
	MyMemory    MyMemoryConfig `yaml:"mymemory"`
	Yandex      YandexConfig   `yaml:"yandex"`
}

// MyMemoryConfig points at the MyMemory API.
type MyMemoryConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// YandexConfig wires the Yandex Translate API.
type YandexConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
}

// ChatGPTConfig defines how to contact the rewrite model.
type ChatGPTConfig struct {
	Endpoint            string  `yaml:"endpoint"`
	Model               string  `yaml:"model"`
	APIKey              string  `yaml:"apiKey"`
	SystemPrompt        string  `yaml:"systemPrompt"`
	InstructionTemplate string  `yaml:"instructionTemplate"`
	MaxTokens           int     `yaml:"maxTokens"`
	Temperature         float64 `yaml:"temperature"`
}

// YouTubeConfig wires discovery and transcript extraction.
type YouTubeConfig struct {
	APIKey     string `yaml:"apiKey"`
	SearchURL  string `yaml:"searchUrl"`
	WatchURL   string `yaml:"watchUrl"`
	MaxResults int    `yaml:"maxResults"`
}

// HarvestConfig is the topic query used for scheduled discovery.
type HarvestConfig struct {
	Query string `yaml:"query"`
}

// SchedulerConfig defines when harvests should run. An empty cron expression
// means a single immediate run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.ChatGPT.APIKey = v
	}

	if v := os.Getenv(yandexKeyEnv); v != "" {
		c.Translate.Yandex.APIKey = v
	}

	if v := os.Getenv(youtubeKeyEnv); v != "" {
		c.YouTube.APIKey = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Pipeline.PreferredLanguage != "" {
		base.Pipeline.PreferredLanguage = override.Pipeline.PreferredLanguage
	}
	if override.Pipeline.FallbackLanguage != "" {
		base.Pipeline.FallbackLanguage = override.Pipeline.FallbackLanguage
	}
	if override.Pipeline.TopicID != 0 {
		base.Pipeline.TopicID = override.Pipeline.TopicID
	}
	if override.Pipeline.MaxAttempts != 0 {
		base.Pipeline.MaxAttempts = override.Pipeline.MaxAttempts
	}
	if override.Pipeline.BackoffBaseSeconds != 0 {
		base.Pipeline.BackoffBaseSeconds = override.Pipeline.BackoffBaseSeconds
	}

	if override.Translate.Provider != "" {
		base.Translate.Provider = override.Translate.Provider
	}
	if override.Translate.ChunkSize != 0 {
		base.Translate.ChunkSize = override.Translate.ChunkSize
	}
	if override.Translate.Concurrency != 0 {
		base.Translate.Concurrency = override.Translate.Concurrency
	}
	if override.Translate.MyMemory.Endpoint != "" {
		base.Translate.MyMemory = override.Translate.MyMemory
	}
	if override.Translate.Yandex.Endpoint != "" {
		base.Translate.Yandex.Endpoint = override.Translate.Yandex.Endpoint
	}
	if override.Translate.Yandex.APIKey != "" {
		base.Translate.Yandex.APIKey = override.Translate.Yandex.APIKey
	}

	if override.ChatGPT.Endpoint != "" {
		base.ChatGPT.Endpoint = override.ChatGPT.Endpoint
	}
	if override.ChatGPT.Model != "" {
		base.ChatGPT.Model = override.ChatGPT.Model
	}
	if override.ChatGPT.APIKey != "" {
		base.ChatGPT.APIKey = override.ChatGPT.APIKey
	}
	if override.ChatGPT.SystemPrompt != "" {
		base.ChatGPT.SystemPrompt = override.ChatGPT.SystemPrompt
	}
	if override.ChatGPT.InstructionTemplate != "" {
		base.ChatGPT.InstructionTemplate = override.ChatGPT.InstructionTemplate
	}
	if override.ChatGPT.MaxTokens != 0 {
		base.ChatGPT.MaxTokens = override.ChatGPT.MaxTokens
	}
	if override.ChatGPT.Temperature != 0 {
		base.ChatGPT.Temperature = override.ChatGPT.Temperature
	}

	if override.YouTube.APIKey != "" {
		base.YouTube.APIKey = override.YouTube.APIKey
	}
	if override.YouTube.SearchURL != "" {
		base.YouTube.SearchURL = override.YouTube.SearchURL
	}
	if override.YouTube.WatchURL != "" {
		base.YouTube.WatchURL = override.YouTube.WatchURL
	}
	if override.YouTube.MaxResults != 0 {
		base.YouTube.MaxResults = override.YouTube.MaxResults
	}

	if override.Harvest.Query != "" {
		base.Harvest = override.Harvest
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Database: DatabaseConfig{Path: "harvester_data.db"},
		Logging:  LoggingConfig{Level: "info"},
		Pipeline: PipelineConfig{
			PreferredLanguage:  "ru",
			FallbackLanguage:   "en",
			MaxAttempts:        3,
			BackoffBaseSeconds: 2,
		},
		Translate: TranslateConfig{
			Provider:    "mymemory",
			Concurrency: 4,
		},
		ChatGPT: ChatGPTConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			SystemPrompt: "You are a professional copywriter rewriting transcripts into articles.",
			InstructionTemplate: "Rewrite the text after the colon into a lively, publication-ready " +
				"article that keeps readers engaged to the end:\n\n{text}",
			MaxTokens:   1000,
			Temperature: 0.7,
		},
		YouTube: YouTubeConfig{
			MaxResults: 5,
		},
		Harvest:   HarvestConfig{Query: ""},
		Scheduler: SchedulerConfig{CronExpression: "", Timezone: defaultTimezone, location: tz},
	}
}
