package appconfig

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	showHeading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	showKey     = lipgloss.NewStyle().Width(18)
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &fallback
	}
	token := "not set"
	if cfg.Token() != "" {
		token = "set (hidden)"
	}
	spreadsheet := cfg.SpreadsheetID
	if spreadsheet == "" {
		spreadsheet = "not set"
	}

	fmt.Fprintln(out, showHeading.Render("Current configuration:"))
	rows := [][2]string{
		{"Data Dir:", cfg.DataDirPath()},
		{"Suite:", suiteLabel(cfg.Suite)},
		{"Threshold:", cfg.ThresholdKey()},
		{"Format:", cfg.OutputFormat()},
		{"Plot Dir:", cfg.PlotDir()},
		{"Log File:", cfg.LogFilePath()},
		{"Debug:", fmt.Sprint(cfg.Debug)},
		{"Spreadsheet:", spreadsheet},
		{"Sheets URL:", cfg.SheetsURL()},
		{"Sheets Token:", token},
		{"Index Column:", cfg.IndexColumnLetter()},
		{"Timeout:", cfg.RequestTimeout().String()},
	}
	for _, r := range rows {
		fmt.Fprintf(out, "  %s%s\n", showKey.Render(r[0]), r[1])
	}
}

func suiteLabel(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
