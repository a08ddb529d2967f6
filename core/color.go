package core

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/josephlewis42/treesh/core/config"
)

var (
	ColorBoldRed  = newColor(color.FgRed, color.Bold)
	ColorBoldCyan = newColor(color.FgCyan, color.Bold)
)

// newColor creates a color that ignores the process wide NoColor setting;
// ColorPrinter decides when to apply it.
func newColor(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// ColorPrinter formats text in color depending on the color mode.
type ColorPrinter struct {
	Mode       string
	IsTerminal bool
}

// NewColorPrinter creates a printer for a mode of config.ColorAlways,
// config.ColorAuto or config.ColorNever.
func NewColorPrinter(mode string, isTerminal bool) *ColorPrinter {
	return &ColorPrinter{Mode: mode, IsTerminal: isTerminal}
}

func (c *ColorPrinter) ShouldColor() bool {
	switch c.Mode {
	case config.ColorNever:
		return false
	case config.ColorAlways:
		return true
	default:
		return c.IsTerminal
	}
}

func (c *ColorPrinter) Sprintf(color *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		return color.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}
