package config

import "fmt"

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	Mode string `mapstructure:"mode" validate:"omitempty,oneof=debug release test"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" validate:"oneof=mysql sqlite"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database" validate:"required"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		return d.Database
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=text json"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

// SubscriptionConfig tunes the entitlement engine.
type SubscriptionConfig struct {
	// RenewGracePeriodMinutes is how long previously issued API keys stay
	// usable after a key renewal.
	RenewGracePeriodMinutes int `mapstructure:"renew_grace_period_minutes" validate:"gte=0"`
	// LockTTLSeconds bounds the per-application creation lock.
	LockTTLSeconds int `mapstructure:"lock_ttl_seconds" validate:"gte=1"`
	// NotifyChannel is the Redis pub/sub channel for hook dispatch.
	NotifyChannel string `mapstructure:"notify_channel"`
}
