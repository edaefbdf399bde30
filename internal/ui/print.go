package ui

import (
	"fmt"
	"io"
	"os"
)

// Output destinations, swappable in tests
var (
	Out    io.Writer = os.Stdout
	ErrOut io.Writer = os.Stderr
)

// SetOutput redirects all printers and returns a func restoring the previous writers
func SetOutput(out, errOut io.Writer) (restore func()) {
	prevOut, prevErr := Out, ErrOut
	Out, ErrOut = out, errOut
	return func() {
		Out, ErrOut = prevOut, prevErr
	}
}

// Success prints a success message with a checkmark icon
func Success(msg string) {
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+msg))
}

// Successf prints a formatted success message with a checkmark icon
func Successf(format string, args ...interface{}) {
	Success(fmt.Sprintf(format, args...))
}

// Error prints an error message with an X icon
func Error(msg string) {
	fmt.Fprintln(ErrOut, ErrorStyle.Render("✗ "+msg))
}

// Errorf prints a formatted error message with an X icon
func Errorf(format string, args ...interface{}) {
	Error(fmt.Sprintf(format, args...))
}

// Warning prints a warning message with a warning icon
func Warning(msg string) {
	fmt.Fprintln(Out, WarningStyle.Render("⚠ "+msg))
}

// Warningf prints a formatted warning message with a warning icon
func Warningf(format string, args ...interface{}) {
	Warning(fmt.Sprintf(format, args...))
}

// Info prints an info message with an info icon
func Info(msg string) {
	fmt.Fprintln(Out, InfoStyle.Render("ℹ "+msg))
}

// Infof prints a formatted info message with an info icon
func Infof(format string, args ...interface{}) {
	Info(fmt.Sprintf(format, args...))
}

// Print prints a plain message (no styling)
func Print(msg string) {
	fmt.Fprintln(Out, msg)
}

// Title prints a large title with background
func Title(title string) {
	fmt.Fprintln(Out, TitleStyle.Render(title))
}

// Header prints a header (bold, colored, no background)
func Header(header string) {
	fmt.Fprintln(Out, HeaderStyle.Render(header))
}

// Subtitle returns secondary italic text
func Subtitle(text string) string {
	return SubtitleStyle.Render(text)
}

// Dim returns dimmed text
func Dim(text string) string {
	return DimStyle.Render(text)
}

// Bold returns bold text
func Bold(text string) string {
	return BoldStyle.Render(text)
}

// Highlight returns highlighted text (primary color, bold)
func Highlight(text string) string {
	return HighlightStyle.Render(text)
}

// Muted returns muted text
func Muted(text string) string {
	return MutedStyle.Render(text)
}
