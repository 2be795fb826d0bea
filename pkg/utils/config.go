package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Password PasswordConfig
	Email    EmailConfig
	SMS      SMSConfig
	Telegram TelegramConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type SessionConfig struct {
	TTLMinutes int
}

type PasswordConfig struct {
	Algorithm string
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type SMSConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

type TelegramConfig struct {
	APIURL string
	Token  string
	ChatID string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "otp-service")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("SESSION_TTL_MINUTES", 30)
	viper.SetDefault("PASSWORD_ALGORITHM", "sha256")
	viper.SetDefault("TELEGRAM_API_URL", "https://api.telegram.org/bot")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			TTLMinutes: viper.GetInt("SESSION_TTL_MINUTES"),
		},
		Password: PasswordConfig{
			Algorithm: viper.GetString("PASSWORD_ALGORITHM"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		SMS: SMSConfig{
			AccountSID: viper.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:  viper.GetString("TWILIO_AUTH_TOKEN"),
			From:       viper.GetString("TWILIO_FROM_NUMBER"),
		},
		Telegram: TelegramConfig{
			APIURL: viper.GetString("TELEGRAM_API_URL"),
			Token:  viper.GetString("TELEGRAM_TOKEN"),
			ChatID: viper.GetString("TELEGRAM_CHAT_ID"),
		},
	}

	return config, nil
}
