package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"studypulse/internal/preflight"
	"studypulse/internal/recommend"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

const labelWidth = 20

var titleCaser = cases.Title(language.English)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// displayLabel title-cases a label for human output ("happy" -> "Happy").
func displayLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "-"
	}
	return titleCaser.String(label)
}

func renderField(label, value string) string {
	return fmt.Sprintf("  %-*s %s", labelWidth, label+":", value)
}

func renderCheck(result preflight.Result, colorize bool) string {
	state, colour := "OK", ansiGreen
	if !result.Passed {
		state, colour = "FAIL", ansiRed
	}
	line := renderField(result.Name, fmt.Sprintf("[%s] %s", state, result.Detail))
	if colorize {
		return colour + line + ansiReset
	}
	return line
}

func renderStressLevel(level string, colorize bool) string {
	if !colorize {
		return level
	}
	switch strings.ToLower(level) {
	case recommend.KeyHigh:
		return ansiRed + level + ansiReset
	case recommend.KeyMedium:
		return ansiYellow + level + ansiReset
	default:
		return ansiGreen + level + ansiReset
	}
}

func printRecommendation(out io.Writer, rec recommend.Recommendation) {
	fmt.Fprintf(out, "Recommendations (%s)\n", displayLabel(rec.Key))
	fmt.Fprintln(out, "  Study tips:")
	for _, tip := range rec.StudyTips {
		fmt.Fprintf(out, "    - %s\n", tip)
	}
	fmt.Fprintf(out, "  Quote: %q\n", rec.MotivationalQuote)
	fmt.Fprintln(out, "  Activities:")
	for _, activity := range rec.RecommendedActivities {
		fmt.Fprintf(out, "    - %s\n", activity)
	}
}
