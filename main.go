package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmatsuo0/qlp/cmd"
	"github.com/mmatsuo0/qlp/internal/buildinfo"
	"github.com/mmatsuo0/qlp/internal/conf"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildDate=..."
var (
	version   string
	buildDate string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	settings := &conf.Settings{}
	err := cmd.RootCommand(settings, buildinfo.NewContext(version, buildDate)).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
