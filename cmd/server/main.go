package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/logkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/logkeeper/internal/server"
	"github.com/dmitrijs2005/logkeeper/internal/server/config"
	"github.com/gin-gonic/gin"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	gin.SetMode(gin.ReleaseMode)

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
