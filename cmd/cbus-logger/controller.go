package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	tap "github.com/basilfx/go-cbus-tap"
	"github.com/basilfx/go-cbus-tap/logging"
	"github.com/basilfx/go-cbus-tap/metrics"
	"github.com/basilfx/go-cbus-tap/serialport"
)

// Exit codes.
const (
	exitOK           = 0
	exitInvalidPort  = 1
	exitPortNotFound = 2
	exitOpenFailed   = 3
	exitSettings     = 4
)

type state int

const (
	stateIdle state = iota
	stateValidating
	stateRunning
	stateShuttingDown
	stateStopped
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateValidating:
		return "Validating"
	case stateRunning:
		return "Running"
	case stateShuttingDown:
		return "ShuttingDown"
	case stateStopped:
		return "Stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// controller runs the logger from startup flags to shutdown.
type controller struct {
	in       io.Reader
	out      io.Writer
	driver   serialport.Driver
	settings settings
	channels *logging.Channels
	metrics  *metrics.Metrics

	state   state
	history []state
}

func newController(in io.Reader, out io.Writer, driver serialport.Driver, s settings, channels *logging.Channels, m *metrics.Metrics) *controller {
	return &controller{
		in:       in,
		out:      out,
		driver:   driver,
		settings: s,
		channels: channels,
		metrics:  m,
		state:    stateIdle,
	}
}

func (c *controller) transition(to state) {
	c.channels.Diagnostic.Debugf("State %s -> %s.", c.state, to)

	c.state = to
	c.history = append(c.history, to)
}

func (c *controller) stop(code int) int {
	c.transition(stateStopped)

	return code
}

// Run handles args and, unless they ask for help or the port list, observes
// the selected port until a blank line or end of input on c.in, or until ctx
// is done. It returns the process exit code.
func (c *controller) Run(ctx context.Context, args []string) int {
	diag := c.channels.Diagnostic

	c.transition(stateValidating)

	filter := tap.NewFilterConfiguration()
	act, err := parseArgs(args, filter)

	if err != nil {
		diag.Errorf("Unable to apply arguments: %v.", err)
		return c.stop(exitSettings)
	}

	switch act {
	case actionHelp:
		printHelp(c.out)
		return c.stop(exitOK)
	case actionListPorts:
		c.listPorts()
		return c.stop(exitOK)
	}

	number := filter.PortNumber()

	if number < 1 {
		diag.Errorf("Invalid port number %d, it must be at least 1.", number)
		return c.stop(exitInvalidPort)
	}

	name := c.settings.portName(number)
	ports, err := c.driver.Ports()

	if err != nil {
		diag.Errorf("Unable to enumerate ports: %v.", err)
		return c.stop(exitPortNotFound)
	}

	if !slices.Contains(ports, name) {
		diag.Errorf("Port %s not found.", name)
		return c.stop(exitPortNotFound)
	}

	fmt.Fprintf(c.out, "Using %s\n", name)

	if c.settings.Log.File != "" {
		fmt.Fprintf(c.out, "Logging to %s\n", c.settings.Log.File)
	}

	pipeline := tap.Build(tap.PipelineConfig{
		Filter: filter,
		Driver: c.driver,
		Channels: tap.Channels{
			Serial:      c.channels.Serial,
			GridConnect: c.channels.GridConnect,
			CBUS:        c.channels.CBUS,
		},
		Metrics:    c.metrics,
		BufferSize: c.settings.BufferSize,
		OnError:    c.readFailed,
	})

	cfg := serialport.DefaultConfig(name)
	cfg.ReadTimeout = c.settings.ReadTimeout

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := pipeline.ConnectContext(runCtx, cfg); err != nil {
		diag.Errorf("Unable to open %s: %v.", name, err)
		return c.stop(exitOpenFailed)
	}

	c.transition(stateRunning)

	if c.settings.MetricsAddr != "" {
		go func() {
			if err := c.metrics.Serve(runCtx, c.settings.MetricsAddr); err != nil {
				diag.Errorf("Metrics server stopped: %v.", err)
			}
		}()
	}

	fmt.Fprintln(c.out, "Logging incoming messages.")
	fmt.Fprintln(c.out, "Press [Enter] to exit.")

	c.awaitTermination(runCtx)

	c.transition(stateShuttingDown)

	pipeline.Disconnect()
	<-pipeline.Done()

	diag.Infof("Observed %s.", c.metrics.Summary())

	return c.stop(exitOK)
}

func (c *controller) readFailed(err error) {
	c.metrics.ObserveReadFailure()
	c.channels.Diagnostic.Errorf("%v. Observing stopped, restart to resume.", err)
}

func (c *controller) listPorts() {
	ports, err := c.driver.Ports()

	if err != nil {
		c.channels.Diagnostic.Errorf("Unable to enumerate ports: %v.", err)
	}

	fmt.Fprintf(c.out, "%d serial ports found:\n", len(ports))

	for _, port := range ports {
		fmt.Fprintln(c.out, port)
	}
}

// awaitTermination blocks until a blank line or end of input on c.in, or
// until ctx is done. Other lines are ignored.
func (c *controller) awaitTermination(ctx context.Context) {
	terminate := make(chan struct{})

	go func() {
		defer close(terminate)

		scanner := bufio.NewScanner(c.in)

		for scanner.Scan() {
			if strings.TrimSpace(scanner.Text()) == "" {
				return
			}
		}
	}()

	select {
	case <-terminate:
	case <-ctx.Done():
	}
}
