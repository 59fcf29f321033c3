package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string
	DBLogLevel string

	RedisHost     string
	RedisPort     string
	SessionSecret string
	JWTSecret     string
	JWTTTL        time.Duration

	GinMode        string
	Port           string
	AllowedOrigins []string

	OpenAIAPIKey string

	ChartServiceURL string
	ChartTimeout    time.Duration
	ChartWidth      int
	ChartHeight     int
}

// Load reads configuration from an optional .env file, an optional
// config.yaml and the process environment, in increasing precedence.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/employeest")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("Warning: failed to read config file: %v", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "employeest")
	v.SetDefault("DB_PASSWORD", "employeest")
	v.SetDefault("DB_NAME", "employeest")
	v.SetDefault("DB_PATH", "employeest.db")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("SESSION_SECRET", "default-secret-key-change-me")
	v.SetDefault("JWT_SECRET", "default-jwt-secret-change-me")
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("PORT", "8080")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("QUICK_CHART_API_URL", "https://quickchart.io/chart")
	v.SetDefault("CHART_TIMEOUT", 10*time.Second)
	v.SetDefault("CHART_WIDTH", 500)
	v.SetDefault("CHART_HEIGHT", 300)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		DBDriver:        strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:          v.GetString("DB_HOST"),
		DBPort:          v.GetString("DB_PORT"),
		DBUser:          v.GetString("DB_USER"),
		DBPassword:      v.GetString("DB_PASSWORD"),
		DBName:          v.GetString("DB_NAME"),
		DBPath:          v.GetString("DB_PATH"),
		DBLogLevel:      strings.ToLower(v.GetString("DB_LOG_LEVEL")),
		RedisHost:       v.GetString("REDIS_HOST"),
		RedisPort:       v.GetString("REDIS_PORT"),
		SessionSecret:   v.GetString("SESSION_SECRET"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTTTL:          v.GetDuration("JWT_TTL"),
		GinMode:         v.GetString("GIN_MODE"),
		Port:            v.GetString("PORT"),
		AllowedOrigins:  splitList(v.GetString("ALLOWED_ORIGINS")),
		OpenAIAPIKey:    v.GetString("OPENAI_API_KEY"),
		ChartServiceURL: strings.TrimRight(v.GetString("QUICK_CHART_API_URL"), "/"),
		ChartTimeout:    v.GetDuration("CHART_TIMEOUT"),
		ChartWidth:      v.GetInt("CHART_WIDTH"),
		ChartHeight:     v.GetInt("CHART_HEIGHT"),
	}
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
