package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ayomtuase/julieth"
)

func main() {
	configPath := flag.String("config", "", "Path to the TOML configuration file (defaults and JULIETH_ environment when empty)")

	originalUsage := flag.Usage
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-config path]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Serves the login, sign-up and dashboard pages.\n\n")
		originalUsage()
	}
	flag.Parse()

	_, srv, err := julieth.New(context.Background(), *configPath)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	srv.Run()
}
