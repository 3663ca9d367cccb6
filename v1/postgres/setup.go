package postgres

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Postgres is a wrapper around gorm.DB that provides connection monitoring,
// automatic reconnection, and standardized database operations.
//
// Concurrency: the active *gorm.DB pointer is stored in an atomic pointer and can be
// swapped during reconnection without blocking readers.
type Postgres struct {
	cfg             Config
	client          atomic.Pointer[gorm.DB]
	shutdownSignal  chan struct{}
	retryChanSignal chan error

	closeRetryChanOnce sync.Once
	closeShutdownOnce  sync.Once
}

// NewPostgres creates a new Postgres instance with the provided configuration.
// It establishes the initial database connection and sets up the internal state
// for connection monitoring and recovery.
func NewPostgres(cfg Config) (*Postgres, error) {
	conn, err := connectToPostgres(cfg)
	if err != nil {
		return nil, fmt.Errorf("error in connecting to postgres: %w", err)
	}
	return newFromDB(cfg, conn), nil
}

// NewFromGorm wraps an already opened gorm handle. No monitoring loops are
// started for it.
func NewFromGorm(db *gorm.DB) *Postgres {
	return newFromDB(Config{}, db)
}

func newFromDB(cfg Config, db *gorm.DB) *Postgres {
	pg := &Postgres{
		cfg:             cfg,
		shutdownSignal:  make(chan struct{}),
		retryChanSignal: make(chan error, 1),
	}
	pg.client.Store(db)
	return pg
}

// DSN renders the libpq key/value connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Connection.Host,
		c.Connection.Port,
		c.Connection.User,
		c.Connection.Password,
		c.Connection.DbName,
		c.Connection.SSLMode)
}

// connectToPostgres opens the connection with GORM and configures the pool.
func connectToPostgres(postgresConfig Config) (*gorm.DB, error) {
	database, err := gorm.Open(
		postgres.Open(postgresConfig.DSN()),
		&gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgresSQL database: %w", err)
	}

	databaseInstance, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get PostgresSQL database instance: %w", err)
	}

	maxOpen := postgresConfig.ConnectionDetails.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 50
	}
	maxIdle := postgresConfig.ConnectionDetails.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 25
	}
	maxLifetime := postgresConfig.ConnectionDetails.ConnMaxLifetime
	if maxLifetime == 0 {
		maxLifetime = 1 * time.Minute
	}

	databaseInstance.SetMaxOpenConns(maxOpen)
	databaseInstance.SetMaxIdleConns(maxIdle)
	databaseInstance.SetConnMaxLifetime(maxLifetime)

	log.Println("INFO: Successfully connected to PostgresSQL database")

	return database, nil
}

// DB returns the active gorm handle.
func (p *Postgres) DB() *gorm.DB {
	return p.client.Load()
}

// RetryConnection waits for failure signals from MonitorConnection and
// reconnects until it succeeds, honouring shutdown and ctx cancellation.
func (p *Postgres) RetryConnection(ctx context.Context) {
outerLoop:
	for {
		select {
		case <-p.shutdownSignal:
			log.Println("INFO: Stopping RetryConnection loop due to shutdown signal")
			return
		case <-ctx.Done():
			return
		case _, ok := <-p.retryChanSignal:
			if !ok {
				return
			}
		innerLoop:
			for {
				select {
				case <-p.shutdownSignal:
					return
				case <-ctx.Done():
					return
				default:
					newConn, err := connectToPostgres(p.cfg)
					if err != nil {
						log.Printf("ERROR: PostgresSQL reconnection failed: %v", err)
						time.Sleep(time.Second)
						continue innerLoop
					}
					p.client.Store(newConn)
					log.Println("INFO: Successfully reconnected to PostgresSQL database")
					continue outerLoop
				}
			}
		}
	}
}

// MonitorConnection pings the database every 10 seconds and signals
// RetryConnection when the ping fails.
func (p *Postgres) MonitorConnection(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.shutdownSignal:
			log.Println("INFO: Stopping MonitorConnection loop due to shutdown signal")
			return
		case <-ticker.C:
			if err := p.healthCheck(); err != nil {
				select {
				case p.retryChanSignal <- err:
				default:
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (p *Postgres) healthCheck() error {
	dbConn := p.DB()
	if dbConn == nil {
		return fmt.Errorf("database Client is not initialized")
	}

	db, err := dbConn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during health check: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed during health check: %w", err)
	}

	return nil
}

// GracefulShutdown stops the monitoring loops and closes the pool.
func (p *Postgres) GracefulShutdown() error {
	p.closeShutdownOnce.Do(func() {
		close(p.shutdownSignal)
	})

	sqlDB, err := p.DB().DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}
