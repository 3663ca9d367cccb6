package httpapi

import "time"

// Config for the HTTP trigger.
type Config struct {
	// Address the API listens on.
	Address string `envconfig:"HTTP_ADDRESS" default:":8080"`

	// AppEnv switches gin to release mode for "prod" and "production".
	AppEnv string `envconfig:"APP_ENV" default:"local"`

	ReadHeaderTimeout time.Duration `envconfig:"HTTP_READ_HEADER_TIMEOUT" default:"10s"`
	WriteTimeout      time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s"`
}
