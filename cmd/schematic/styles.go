package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// styles holds the color formatters shared by report and inspect.
type styles struct {
	heading *color.Color
	id      *color.Color
	source  *color.Color
	number  *color.Color
	symbol  *color.Color
	gear    *color.Color
	muted   *color.Color
}

// newStyles creates color formatters; enabled=false yields plain text.
func newStyles(enabled bool) *styles {
	s := &styles{
		heading: color.New(color.Bold, color.FgHiWhite),
		id:      color.New(color.FgHiGreen),
		source:  color.New(color.FgHiBlue),
		number:  color.New(color.FgYellow),
		symbol:  color.New(color.FgMagenta),
		gear:    color.New(color.Bold, color.FgHiRed),
		muted:   color.New(color.FgHiBlack),
	}

	for _, c := range []*color.Color{s.heading, s.id, s.source, s.number, s.symbol, s.gear, s.muted} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// colorEnabled resolves a --color mode. "auto" colors only a terminal
// stdout and honours NO_COLOR.
func colorEnabled(mode string) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		return term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("unknown color mode: %s (valid: auto, always, never)", mode)
	}
}
