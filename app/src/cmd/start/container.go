package main

import (
	"net/http"

	grpcapi "quote-frontend/app/src/api/grpc"
	"quote-frontend/app/src/infra"

	"google.golang.org/grpc"
)

type application struct {
	Config     infra.Config
	Logger     *infra.Logger
	HTTPServer *http.Server
	GRPCServer *grpc.Server
	Health     *grpcapi.HealthReporter
}

func newApplication(cfg infra.Config, logger *infra.Logger, httpServer *http.Server, grpcServer *grpc.Server, health *grpcapi.HealthReporter) *application {
	return &application{
		Config:     cfg,
		Logger:     logger,
		HTTPServer: httpServer,
		GRPCServer: grpcServer,
		Health:     health,
	}
}

func assembleApplication(app *application) (*application, func(), error) {
	cleanup := func() {
		app.Logger.Sync()
	}
	return app, cleanup, nil
}
