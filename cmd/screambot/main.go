package main

import (
	"context"
	"log"

	"github.com/m3rciful/screambot/bot/app"
	"github.com/m3rciful/screambot/core/bootstrap"
	"github.com/m3rciful/screambot/core/cmd"
	coreconfig "github.com/m3rciful/screambot/core/config"
)

func main() {
	var boot *bootstrap.Result

	err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        coreconfig.Load,
		Bootstrap: func(ctx context.Context, cfg *coreconfig.Config) (cmd.TelegramApp, error) {
			res, err := bootstrap.Run(ctx, bootstrap.Options{Config: cfg})
			if err != nil {
				return nil, err
			}
			boot = res
			return app.New(cfg)
		},
	})
	if boot != nil && boot.MetricsDone != nil {
		<-boot.MetricsDone
	}
	if err != nil {
		log.Fatalf("screambot: %v", err)
	}
}
