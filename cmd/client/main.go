package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/leavekeeper/internal/buildinfo"
	"github.com/dmitrijs2005/leavekeeper/internal/client/cli"
	"github.com/dmitrijs2005/leavekeeper/internal/client/config"
	"github.com/dmitrijs2005/leavekeeper/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogBackend, os.Stderr, cfg.Debug)

	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
