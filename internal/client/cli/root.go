package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := string(a.Mode)
	if a.cart.IsAuthenticated() {
		s = s + " authenticated"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", strings.TrimSpace(s))
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to CartKeeper CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	if err := a.cart.Restore(ctx); err != nil {
		log.Printf("could not restore saved cart: %v", err)
	}

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	for {
		fmt.Printf("cart %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		switch cmd {
		case "help":
			fmt.Println("Available commands: add, remove, qty, list, clear, refresh, login, logout, exit")
		case "add":
			a.add(ctx)
		case "remove":
			a.remove(ctx)
		case "qty":
			a.setQuantity(ctx)
		case "list", "l":
			a.list()
		case "clear":
			a.clear(ctx)
		case "refresh":
			a.refresh(ctx)
		case "login":
			a.login(ctx)
		case "logout":
			a.logout()
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Printf("Unknown command: %s\n", cmd)
		}
	}
}
