// Command cli is the interactive LogKeeper client.
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/logkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/logkeeper/internal/client/cli"
	"github.com/dmitrijs2005/logkeeper/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	app, err := cli.NewApp(config.LoadConfig())
	if err != nil {
		log.Fatalf("cli init: %v", err)
	}

	app.Run(context.Background())
}
