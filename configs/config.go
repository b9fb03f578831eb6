package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

type Config struct {
	ApifyAPIToken      string
	ApifyActorID       string
	SocialBuAPIToken   string
	SocialBuBaseURL    string
	PagesFile          string
	ResultsFile        string
	ProcessedPostsFile string
	PostgresURI        string
	RedisURI           string
	APIKey             string
	RunCron            string
	ListenAddr         string
	StrategicHours     []int
	ScheduleTZ         string
	WorkerCount        int
	TempDir            string
	R2                 R2
}

func LoadConfig() *Config {
	return &Config{
		ApifyAPIToken:      getEnv("APIFY_API_TOKEN", ""),
		ApifyActorID:       getEnv("APIFY_ACTOR_ID", "apify~instagram-post-scraper"),
		SocialBuAPIToken:   getEnv("SOCIALBU_API_TOKEN", ""),
		SocialBuBaseURL:    getEnv("SOCIALBU_BASE_URL", "https://socialbu.com/api/v1"),
		PagesFile:          getEnv("PAGES_FILE", "pages.json"),
		ResultsFile:        getEnv("RESULTS_FILE", "workflow_results.json"),
		ProcessedPostsFile: getEnv("PROCESSED_POSTS_FILE", "processed_posts.json"),
		PostgresURI:        getEnv("POSTGRES_URI", ""),
		RedisURI:           getEnv("REDIS_URI", "127.0.0.1:6379"),
		APIKey:             getEnv("API_KEY", ""),
		RunCron:            getEnv("RUN_CRON", "@every 1h0m0s"),
		ListenAddr:         getEnv("LISTEN_ADDR", ":3000"),
		StrategicHours:     getEnvHours("STRATEGIC_HOURS", []int{10, 14, 18}),
		ScheduleTZ:         getEnv("SCHEDULE_TZ", "UTC"),
		WorkerCount:        getEnvInt("WORKER_COUNT", 1),
		TempDir:            getEnv("TEMP_DIR", os.TempDir()),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
	}
}

// Validate checks the settings every workflow run depends on. A missing
// Apify token is not an error here: the fetcher degrades to mock mode.
func (c *Config) Validate() error {
	if c.SocialBuAPIToken == "" {
		return fmt.Errorf("SOCIALBU_API_TOKEN is not set")
	}
	if len(c.StrategicHours) == 0 {
		return fmt.Errorf("STRATEGIC_HOURS is empty")
	}
	for _, h := range c.StrategicHours {
		if h < 0 || h > 23 {
			return fmt.Errorf("strategic hour %d is out of range", h)
		}
	}
	if _, err := time.LoadLocation(c.ScheduleTZ); err != nil {
		return fmt.Errorf("invalid SCHEDULE_TZ %q: %w", c.ScheduleTZ, err)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("WORKER_COUNT must be at least 1")
	}
	return nil
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ScheduleTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvHours(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var hours []int
	for _, part := range strings.Split(value, ",") {
		h, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return defaultValue
		}
		hours = append(hours, h)
	}
	return hours
}
