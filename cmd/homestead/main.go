package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yotip/homestead/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override homestead config path (optional)")
	prefsPath := flag.String("prefs", "", "override device preferences path (optional)")
	userID := flag.String("user", "", "sign in as this user id without credentials (optional)")
	expiry := flag.Duration("expiry", 0, "deadline check interval (optional, defaults to the config value)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		UserID:     *userID,
		Debug:      *debug,
	}
	if d := *expiry; d > 0 {
		opts.ExpiryInterval = d
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "homestead: %v\n", err)
		return 1
	}
	return 0
}
