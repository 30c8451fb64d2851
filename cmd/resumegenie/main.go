package main

import (
	"fmt"
	"log"

	corecmd "github.com/techadmin009/resumegenie/core/cmd"
	"github.com/techadmin009/resumegenie/internal/bot"
	appconfig "github.com/techadmin009/resumegenie/internal/config"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return appconfig.Load(path)
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg, ok := carrier.(*appconfig.Config)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", carrier)
			}
			return bot.Bootstrap(cfg)
		},
	})
	if err != nil {
		log.Fatalf("resumegenie: %v", err)
	}
}
