//go:build wireinject

package main

import (
	"context"
	"io"

	"github.com/google/wire"
)

func initApplication(ctx context.Context, out io.Writer) (*application, func(), error) {
	wire.Build(
		provideConfig,
		provideServiceName,
		provideLogger,
		provideHealthReporter,
		provideGRPCServer,
		provideBackend,
		provideFallbackQuotes,
		provideRelay,
		provideHTTPServer,
		newApplication,
		assembleApplication,
	)
	return nil, nil, nil
}
