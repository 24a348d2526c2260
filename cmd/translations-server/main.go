package main

import (
	"github.com/julianladisch/stripes-core/app"
	"github.com/julianladisch/stripes-core/config"
	"github.com/julianladisch/stripes-core/log"
)

type serverConfig struct {
	app.Config
	Port int `envconfig:"PORT" default:"8080"`
}

func main() {
	var cfg serverConfig
	config.Load(&cfg)

	server, err := app.New(cfg.Config)
	if err != nil {
		log.Fatal("failed to start translations server: %v", err)
	}
	if err := server.Start(cfg.Port); err != nil {
		log.Fatal("server stopped: %v", err)
	}
}
