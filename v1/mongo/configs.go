package mongo

import "time"

// Config holds the connection settings for the document store.
type Config struct {
	// URI is a standard mongodb:// or mongodb+srv:// connection string.
	URI string `yaml:"uri" envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`

	// Database is the database every collection is opened in.
	Database string `yaml:"database" envconfig:"MONGO_DATABASE" default:"catalog"`

	// ConnectTimeout bounds the initial connect and ping.
	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`

	// MaxPoolSize caps the driver connection pool. Zero keeps the driver default.
	MaxPoolSize uint64 `yaml:"max_pool_size" envconfig:"MONGO_MAX_POOL_SIZE"`
}
