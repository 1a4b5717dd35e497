package autoload

import (
	"context"
	"os"

	"quote-frontend/app/src/infra"
	"quote-frontend/app/src/infra/utils/dotenv"
)

var logger = infra.NewLogger(os.Stdout, "autoload")

func init() {
	if err := dotenv.Load(); err != nil {
		logger.Warnf(context.Background(), "dotenv autoload: %v", err)
	}
}
