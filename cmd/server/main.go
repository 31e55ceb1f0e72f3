package main

import (
	"context"
	"flag"
	"log"

	"github.com/simp-lee/backoffice/internal/app"
	"github.com/simp-lee/backoffice/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	grantAdmin := flag.String("grant-admin", "", "email of a registered user to grant the ADMIN role before serving")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal("failed to create app: ", err)
	}

	if *grantAdmin != "" {
		if err := a.GrantRole(context.Background(), *grantAdmin, app.AdminRoleCode); err != nil {
			log.Fatal("failed to grant admin role: ", err)
		}
	}

	if err := a.Run(); err != nil {
		log.Fatal("server error: ", err)
	}
}
