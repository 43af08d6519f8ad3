package main

import (
	"context"
	"os"

	"nag-cli/internal/cli"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env in the working directory with NAG_* defaults.
	_ = godotenv.Load()

	cmd := cli.NewRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
