package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/cartkeeper/internal/client/cart"
	"github.com/dmitrijs2005/cartkeeper/internal/client/cli"
	"github.com/dmitrijs2005/cartkeeper/internal/client/client"
	"github.com/dmitrijs2005/cartkeeper/internal/client/config"
	"github.com/dmitrijs2005/cartkeeper/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	ctx := context.Background()

	repos, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer func() { _ = repos.DB.Close() }()

	remote := client.NewHTTPClient(cfg.ServerEndpointAddr)
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	svc := cart.NewService(remote, repos.Cart, logger)

	app := cli.NewApp(cfg, remote, svc)
	app.Run(ctx)
}
