package minio

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *MinioClient.
//
// Dependencies required by this module:
// - A minio.Config instance must be available in the dependency injection container
var FXModule = fx.Module("minio",
	fx.Provide(NewClient),
	fx.Invoke(RegisterLifecycle),
)

// RegisterLifecycle checks the upload bucket when the application starts.
func RegisterLifecycle(lc fx.Lifecycle, mi *MinioClient) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return mi.EnsureBucket(ctx)
		},
	})
}
