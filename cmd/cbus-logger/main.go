package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/basilfx/go-cbus-tap/logging"
	"github.com/basilfx/go-cbus-tap/metrics"
	"github.com/basilfx/go-cbus-tap/serialport"
)

func main() {
	os.Exit(run())
}

func run() int {
	s, err := loadSettings()

	if err != nil {
		fmt.Fprintf(os.Stderr, "cbus-logger: %v\n", err)
		return exitSettings
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.StandardLogger()
	closer := logging.Configure(logger, s.Log)
	defer closer.Close()

	m := metrics.New()
	logger.AddHook(m.Hook())

	c := newController(os.Stdin, os.Stdout, serialport.SystemDriver{}, s, logging.NewChannels(logger, s.Log), m)

	return c.Run(ctx, os.Args[1:])
}
