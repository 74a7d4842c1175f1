package main

import (
	"context"
	"flag"
	"log"
	"os"

	"files-manager-api/internal"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "optional YAML/JSON config file")
	flag.Parse()

	ctx := context.Background()

	app, err := internal.NewApp(ctx, *configPath)
	if err != nil {
		log.Fatalf("init app failed: %v", err)
	}
	defer app.Close()

	app.InitControllers()

	if err = app.Run(ctx); err != nil {
		app.Logger().Sugar().Errorf("filemanager stopped with error: %v", err)
		os.Exit(1)
	}
}
