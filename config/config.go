package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Redis        Redis
	Demo         Demo
	GeminiApiKey string
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

type Redis struct {
	Addr string
}

// Demo holds the fallback identities used by the cookie-based demo auth.
type Demo struct {
	AdminEmail    string
	LecturerEmail string
	StudentEmail  string
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
	viper.SetDefault("DEMO_ADMIN_EMAIL", "admin@demo.local")
	viper.SetDefault("DEMO_LECTURER_EMAIL", "lecturer@demo.local")
	viper.SetDefault("DEMO_STUDENT_EMAIL", "student@demo.local")

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")

	config.Demo.AdminEmail = viper.GetString("DEMO_ADMIN_EMAIL")
	config.Demo.LecturerEmail = viper.GetString("DEMO_LECTURER_EMAIL")
	config.Demo.StudentEmail = viper.GetString("DEMO_STUDENT_EMAIL")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	log.Info().Str("server_port", config.Server.Port).Str("db_host", config.Database.Host).Msg("Config loaded")
	return &config, nil
}
