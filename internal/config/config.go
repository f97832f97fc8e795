package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Ledger   LedgerConfig
	Alerts   AlertsConfig
	AMQP     AMQPConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type LedgerConfig struct {
	TxTimeout        time.Duration
	MaxRetryAttempts int
}

type AlertsConfig struct {
	VelocityWindowDays   int
	StockoutHorizonDays  int
	StockoutCriticalDays int
	ExpiryWindowDays     int
}

type AMQPConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "stockflow")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "stockflow")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LEDGER_TX_TIMEOUT", "5s")
	viper.SetDefault("LEDGER_MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("ALERT_VELOCITY_WINDOW_DAYS", 30)
	viper.SetDefault("ALERT_STOCKOUT_HORIZON_DAYS", 7)
	viper.SetDefault("ALERT_STOCKOUT_CRITICAL_DAYS", 3)
	viper.SetDefault("ALERT_EXPIRY_WINDOW_DAYS", 30)
	viper.SetDefault("AMQP_ENABLED", false)
	viper.SetDefault("AMQP_HOST", "localhost")
	viper.SetDefault("AMQP_PORT", 5672)
	viper.SetDefault("AMQP_USER", "guest")
	viper.SetDefault("AMQP_PASSWORD", "guest")

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	txTimeout, err := time.ParseDuration(viper.GetString("LEDGER_TX_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Ledger: LedgerConfig{
			TxTimeout:        txTimeout,
			MaxRetryAttempts: viper.GetInt("LEDGER_MAX_RETRY_ATTEMPTS"),
		},
		Alerts: AlertsConfig{
			VelocityWindowDays:   viper.GetInt("ALERT_VELOCITY_WINDOW_DAYS"),
			StockoutHorizonDays:  viper.GetInt("ALERT_STOCKOUT_HORIZON_DAYS"),
			StockoutCriticalDays: viper.GetInt("ALERT_STOCKOUT_CRITICAL_DAYS"),
			ExpiryWindowDays:     viper.GetInt("ALERT_EXPIRY_WINDOW_DAYS"),
		},
		AMQP: AMQPConfig{
			Enabled:  viper.GetBool("AMQP_ENABLED"),
			Host:     viper.GetString("AMQP_HOST"),
			Port:     viper.GetInt("AMQP_PORT"),
			User:     viper.GetString("AMQP_USER"),
			Password: viper.GetString("AMQP_PASSWORD"),
		},
	}

	return cfg, nil
}
