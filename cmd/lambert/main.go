package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"runtime"

	"github.com/xlab/closer"
)

func init() {
	// GL and glfw calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	setupLogging(opts.cfg.LogLevel)
	opts.cfg.Apply()

	ctx, cancel := context.WithCancel(context.Background())
	closer.Bind(func() {
		cancel()
		slog.Info("shutting down")
	})
	defer closer.Close()

	if opts.headless {
		err = runHeadless(ctx, opts.cfg)
	} else {
		err = runWindow(ctx, opts.cfg)
	}
	if err != nil {
		closer.Fatalln("lambert:", err)
	}
}
