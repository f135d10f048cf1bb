package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/leavekeeper/internal/buildinfo"
	"github.com/dmitrijs2005/leavekeeper/internal/logging"
	"github.com/dmitrijs2005/leavekeeper/internal/server"
	"github.com/dmitrijs2005/leavekeeper/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogBackend, os.Stdout, cfg.Debug)

	ctx := context.Background()
	app, err := server.NewApp(ctx, cfg, logger)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
