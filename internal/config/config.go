package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort   string        `mapstructure:"SERVER_PORT"`
	DatabaseURL  string        `mapstructure:"DATABASE_URL"`
	JWTSecret    string        `mapstructure:"JWT_SECRET"`
	SessionTTL   time.Duration `mapstructure:"SESSION_TTL"`
	ClientOrigin string        `mapstructure:"CLIENT_ORIGIN"`
	RedisAddr    string        `mapstructure:"REDIS_ADDR"`
	AWSRegion    string        `mapstructure:"AWS_REGION"`
	MailSender   string        `mapstructure:"MAIL_SENDER"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv() // Read in environment variables that match

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SESSION_TTL", 24*time.Hour)

	err := viper.ReadInConfig()
	if err != nil {
		// Allow a missing .env file; everything can come from the environment.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No .env file found.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
