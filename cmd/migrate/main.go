// migrate applies the portal schema from the embedded SQL files.
//
//	go run ./cmd/migrate            # apply everything outstanding
//	go run ./cmd/migrate -direction down
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"clinic-portal/backend/internal/config"
	"clinic-portal/backend/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
		os.Exit(1)
	}

	switch err := migrate.Run(cfg.DatabaseURL, *direction); {
	case errors.Is(err, migrate.ErrNoChange):
		fmt.Println("schema already at target version")
	case err != nil:
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	default:
		fmt.Println("migrations applied:", *direction)
	}
}
