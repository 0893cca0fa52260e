package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// applyColorMode sets the package-global color switch that the
// diagnostics renderer and the version banner honor.
func applyColorMode(value string) error {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
	return nil
}
