package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server         Server
	Database       Database
	JWTSecret      string
	SendgridAPIKey string
	MailFrom       string
	SweepSchedule  string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CERT_SWEEP_SCHEDULE", "@every 15m")
	viper.SetDefault("MAIL_FROM", "no-reply@learnhub.io")

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.JWTSecret = viper.GetString("JWT_SECRET")
	config.SendgridAPIKey = viper.GetString("SENDGRID_API_KEY")
	config.MailFrom = viper.GetString("MAIL_FROM")
	config.SweepSchedule = viper.GetString("CERT_SWEEP_SCHEDULE")

	log.Info().Str("port", config.Server.Port).Msg("Config loaded")
	return &config, nil
}
