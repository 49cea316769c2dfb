package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/glyphorbit/pkg/errors"
)

// ===== Palette =====

var (
	colorCyan   = lipgloss.Color("44")
	colorGreen  = lipgloss.Color("78")
	colorYellow = lipgloss.Color("214")
	colorRed    = lipgloss.Color("203")
	colorBlue   = lipgloss.Color("111")
	colorWhite  = lipgloss.Color("254")
	colorGray   = lipgloss.Color("246")
	colorDim    = lipgloss.Color("241")
)

// Exported styles are shared with the viewer.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// out receives all status output. Tests swap it for a buffer.
var out io.Writer = os.Stdout

// ===== Status lines =====

func emit(icon lipgloss.Style, glyph, msg string) {
	fmt.Fprintln(out, icon.Render(glyph)+" "+msg)
}

func printSuccess(format string, args ...any) {
	emit(styleIconSuccess, iconSuccess, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	emit(styleIconWarning, iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	emit(styleIconInfo, iconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written path.
func printFile(path string) {
	fmt.Fprintln(out, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(out, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints glyph and frame counts followed by whether the result
// came from the cache.
func printStats(glyphs, frames int, cached bool) {
	var parts []string
	if glyphs > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d glyphs", glyphs)))
	}
	if frames > 1 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d frames", frames)))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	fmt.Fprintln(out, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(out, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(out)
}

// PrintError writes err to w the way the CLI reports failures: the message
// without its code, then the hint if one is attached.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+errors.UserMessage(err))
	if hint := errors.Hint(err); hint != "" {
		fmt.Fprintln(w, "  "+StyleDim.Render(hint))
	}
}
