package redis

import "time"

const (
	DefaultHost         = "localhost"
	DefaultPort         = 6379
	DefaultMaxRetries   = 3
	DefaultDialTimeout  = 5 * time.Second
	DefaultReadTimeout  = 3 * time.Second
	DefaultIdleTimeout  = 5 * time.Minute
	DefaultPoolSize     = 10
	defaultMinRetryWait = 8 * time.Millisecond
	defaultMaxRetryWait = 512 * time.Millisecond
)

// Config defines the connection to a standalone Redis instance used for
// coordination between service replicas.
type Config struct {
	// Host is the Redis server hostname or IP address
	Host string `envconfig:"REDIS_HOST" default:"localhost"`

	// Port is the Redis server port
	Port int `envconfig:"REDIS_PORT" default:"6379"`

	// Username is the ACL user (Redis 6.0+); empty for password-only auth
	Username string `envconfig:"REDIS_USERNAME"`

	Password string `envconfig:"REDIS_PASSWORD"`

	// DB is the logical database number
	DB int `envconfig:"REDIS_DB" default:"0"`

	// PoolSize is the maximum number of socket connections
	PoolSize int `envconfig:"REDIS_POOL_SIZE" default:"10"`

	// MaxRetries is the number of command retries go-redis performs; -1 disables them
	MaxRetries int `envconfig:"REDIS_MAX_RETRIES" default:"3"`

	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`

	// IdleTimeout closes connections idle for longer than this
	IdleTimeout time.Duration `envconfig:"REDIS_IDLE_TIMEOUT" default:"5m"`

	// KeyPrefix is prepended to every lock key
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"catalog-ingest:"`
}
