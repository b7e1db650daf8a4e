// Package cli implements the interactive storefront client: a small REPL
// over the cart reconciliation engine.
package cli

import (
	"bufio"
	"context"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/cartkeeper/internal/client/cart"
	"github.com/dmitrijs2005/cartkeeper/internal/client/client"
	"github.com/dmitrijs2005/cartkeeper/internal/client/config"
)

// Mode is the connectivity status shown in the prompt.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	cart   *cart.Service
	remote client.Client
	Mode   Mode
	reader *bufio.Reader
}

func NewApp(c *config.Config, remote client.Client, svc *cart.Service) *App {
	return &App{
		config: c,
		cart:   svc,
		remote: remote,
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.remote.Close() }()
	a.Root(ctx)
}

// StartOnlineStatusWatcher periodically pings the server and flips the
// prompt between online and offline.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			if err := a.remote.Ping(pingCtx); err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}
			cancel()
		case <-ctx.Done():
			return
		}
	}
}
