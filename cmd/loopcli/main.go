package main

import (
	"context"
	"log"

	"github.com/learnloop/learnloop-cli/internal/cli"
	"github.com/learnloop/learnloop-cli/internal/config"
)

func main() {

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(context.Background())

}
