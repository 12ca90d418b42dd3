package main

import (
	"context"
	"log"
	"os"

	"github.com/rajat290/notekeeper/internal/buildinfo"
	"github.com/rajat290/notekeeper/internal/server"
	"github.com/rajat290/notekeeper/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
