// Package logger provides a file-backed leveled log sink. Each level is
// appended to its own file under the configured directory (info.log,
// warn.log, error.log) and echoed to the process log. Write failures are
// swallowed: callers must never depend on logging succeeding.
package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Logger struct {
	dir string
	mu  sync.Mutex
}

// New creates the log directory if needed and returns a logger writing
// into it.
func New(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Logger{dir: dir}, nil
}

func (l *Logger) Info(msg string) { l.write("INFO", "info.log", msg, nil) }

func (l *Logger) Warn(msg string) { l.write("WARN", "warn.log", msg, nil) }

func (l *Logger) Error(msg string, err error) { l.write("ERROR", "error.log", msg, err) }

func (l *Logger) write(level, filename, msg string, cause error) {
	line := fmt.Sprintf("[%s] [%s] %s", time.Now().UTC().Format(time.RFC3339), level, msg)
	if cause != nil {
		line += fmt.Sprintf("\nError: %v", cause)
	}

	log.Println(line)

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(l.dir, filename), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(line + "\n")
}
