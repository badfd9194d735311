package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Broker       BrokerConfig
	Schedule     ScheduleConfig
	Reservation  ReservationConfig
	Housekeeping HousekeepingConfig
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

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// BrokerConfig points at the RabbitMQ broker used for integration events.
// An empty URL disables publishing.
type BrokerConfig struct {
	URL      string
	Exchange string
}

type ScheduleConfig struct {
	BufferMinutes int
	Timezone      string
	MaxRangeDays  int
}

type ReservationConfig struct {
	CommitLockTTL time.Duration
}

type HousekeepingConfig struct {
	Interval time.Duration
}

// Buffer is the cleaning/turnover gap appended to every screening.
func (c ScheduleConfig) Buffer() time.Duration {
	return time.Duration(c.BufferMinutes) * time.Minute
}

// Location resolves the configured timezone, falling back to UTC.
func (c ScheduleConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "screen-star")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("AMQP_EXCHANGE", "")
	viper.SetDefault("SCHEDULE_BUFFER_MINUTES", 15)
	viper.SetDefault("SCHEDULE_TIMEZONE", "UTC")
	viper.SetDefault("SCHEDULE_MAX_RANGE_DAYS", 92)
	viper.SetDefault("COMMIT_LOCK_TTL", "30s")
	viper.SetDefault("HOUSEKEEPING_INTERVAL", "5m")

	// .env is optional in containers; the environment wins either way.
	if err := viper.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
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
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Broker: BrokerConfig{
			URL:      viper.GetString("AMQP_URL"),
			Exchange: viper.GetString("AMQP_EXCHANGE"),
		},
		Schedule: ScheduleConfig{
			BufferMinutes: viper.GetInt("SCHEDULE_BUFFER_MINUTES"),
			Timezone:      viper.GetString("SCHEDULE_TIMEZONE"),
			MaxRangeDays:  viper.GetInt("SCHEDULE_MAX_RANGE_DAYS"),
		},
		Reservation: ReservationConfig{
			CommitLockTTL: viper.GetDuration("COMMIT_LOCK_TTL"),
		},
		Housekeeping: HousekeepingConfig{
			Interval: viper.GetDuration("HOUSEKEEPING_INTERVAL"),
		},
	}

	return config, nil
}
