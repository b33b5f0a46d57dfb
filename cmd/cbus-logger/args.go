package main

import (
	"fmt"
	"io"
	"strconv"
	"unicode"

	tap "github.com/basilfx/go-cbus-tap"
)

type action int

const (
	actionRun action = iota
	actionListPorts
	actionHelp
)

const help = `/c<n>      Sets the port number n, where n > 0
/d         Displays all the available ports
/l<x><+|-> Enables (+) or disables (-) logging of layer x, where x is
           s (serial), g (GridConnect) or c (CBUS)
/o<code>   Logs only CBUS messages with opcode code, may be repeated
/?         Displays this help message
`

var layers = map[rune]tap.Layer{
	's': tap.LayerSerial,
	'g': tap.LayerFrame,
	'c': tap.LayerMessage,
}

// parseArgs applies the startup flags to filter. Arguments that are not
// flags, unknown flags and malformed values are ignored. Listing ports and
// help end parsing.
func parseArgs(args []string, filter *tap.FilterConfiguration) (action, error) {
	for _, arg := range args {
		if len(arg) < 2 || arg[0] != '/' {
			continue
		}

		value := arg[2:]

		switch unicode.ToLower(rune(arg[1])) {
		case 'c':
			// Keep the previous value if the number does not parse.
			if number, err := strconv.Atoi(value); err == nil {
				if err := filter.SetPortNumber(number); err != nil {
					return actionRun, err
				}
			}
		case 'd':
			return actionListPorts, nil
		case 'l':
			if err := parseLogging(value, filter); err != nil {
				return actionRun, err
			}
		case 'o':
			if err := filter.AddOpCode(value); err != nil {
				return actionRun, err
			}
		case '?':
			return actionHelp, nil
		}
	}

	return actionRun, nil
}

func parseLogging(value string, filter *tap.FilterConfiguration) error {
	runes := []rune(value)

	if len(runes) != 2 {
		return nil
	}

	layer, ok := layers[unicode.ToLower(runes[0])]

	if !ok {
		return nil
	}

	switch runes[1] {
	case '+':
		return filter.SetLogging(layer, true)
	case '-':
		return filter.SetLogging(layer, false)
	}

	return nil
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, help)
}
