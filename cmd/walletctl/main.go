package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/cyphera/wallet-rpc/internal/cli"
	"github.com/cyphera/wallet-rpc/internal/constants"
	"github.com/cyphera/wallet-rpc/internal/logger"
)

func main() {
	_ = godotenv.Load()
	logger.InitLogger(constants.StageLocal)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
