// Package logging routes ccdbench log output to stderr and an optional log file.
// Stdout is left to rendered reports.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	mu      sync.Mutex
	logFile *os.File
	warnOut io.Writer = os.Stderr

	warnColor = color.New(color.FgYellow)
)

// Init sends log output to stderr and, when logPath is set, appends it to logPath.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	writers = append(writers, os.Stderr)

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

// Close restores stderr logging and closes the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// SetWarnOutput redirects the colored warning stream. It returns the previous writer.
func SetWarnOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := warnOut
	warnOut = w
	return prev
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// Warn records a non-fatal condition, such as a skipped scene, in the log and
// echoes it in yellow on the warning stream.
func Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	mu.Lock()
	w := warnOut
	mu.Unlock()
	if w != nil {
		warnColor.Fprintln(w, "warning: "+msg)
	}
	log.Println("[WARN] " + msg)
}

// LogRequest records one spreadsheet API exchange.
func LogRequest(direction, sheet, rng string, payload any) {
	msg := buildRequestMessage(direction, sheet, rng, payload)
	log.Println(msg)
}

func buildRequestMessage(direction, sheet, rng string, payload any) string {
	dir := strings.TrimSpace(direction)
	if dir != "" {
		dir = strings.ToUpper(dir)
	}
	sheetValue := strings.TrimSpace(sheet)
	if sheetValue == "" {
		sheetValue = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", dir)}
	parts = append(parts, fmt.Sprintf("sheet=%s", sheetValue))
	if rng = strings.TrimSpace(rng); rng != "" {
		parts = append(parts, fmt.Sprintf("range=%s", rng))
	}
	parts = append(parts, fmt.Sprintf("payload=%s", formatPayload(payload)))
	return strings.Join(parts, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
