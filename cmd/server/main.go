package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/geokeeper/internal/buildinfo"
	"github.com/dmitrijs2005/geokeeper/internal/server"
	"github.com/dmitrijs2005/geokeeper/internal/server/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(context.Background())
}
