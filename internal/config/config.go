package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort           string        `env:"HTTP_PORT" envDefault:"8080"`
	OpenAIAPIKey       string        `env:"OPENAI_API_KEY"`
	LLMBaseURL         string        `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel           string        `env:"LLM_MODEL" envDefault:"gpt-3.5-turbo"`
	LLMTemperature     float64       `env:"LLM_TEMPERATURE" envDefault:"0.8"`
	LLMTimeout         time.Duration `env:"LLM_TIMEOUT" envDefault:"0s"`
	RedisAddr          string        `env:"REDIS_ADDR"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	RedisDB            int           `env:"REDIS_DB" envDefault:"0"`
	ViewTokenSecret    string        `env:"VIEW_TOKEN_SECRET"`
	ViewTTLMinutes     int           `env:"VIEW_TTL_MINUTES" envDefault:"30"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	LogDevelopment     bool          `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ViewTTL devuelve la vida de una vista de página.
func (c *Config) ViewTTL() time.Duration {
	if c.ViewTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.ViewTTLMinutes) * time.Minute
}
