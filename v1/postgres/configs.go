package postgres

import "time"

// Config holds the connection settings and pool tuning for the relational store.
type Config struct {
	Connection
	ConnectionDetails
}

// Connection contains the DSN parts.
type Connection struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     string `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"postgres"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	DbName   string `envconfig:"POSTGRES_DB_NAME" default:"catalog"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
}

// ConnectionDetails tunes the database/sql pool. Zero values fall back to
// package defaults.
type ConnectionDetails struct {
	MaxOpenConns    int           `envconfig:"POSTGRES_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `envconfig:"POSTGRES_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `envconfig:"POSTGRES_CONN_MAX_LIFETIME"`
}
