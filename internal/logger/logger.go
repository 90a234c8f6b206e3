package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var level = new(slog.LevelVar)

var (
	mu     sync.Mutex
	format           = "text"
	output io.Writer = os.Stderr
)

// ParseLevel は debug / info / warn / error を slog.Level に変換します。
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

// SetLevel はログレベルを変更します。ハンドラーを作り直さずに反映されます。
func SetLevel(s string) error {
	lv, err := ParseLevel(s)
	if err != nil {
		return err
	}
	level.Set(lv)
	return nil
}

// Level は現在のログレベルを返します。
func Level() slog.Level {
	return level.Level()
}

// SetFormat は出力形式 (text / json) を変更し、既定ロガーを作り直します。
func SetFormat(f string) error {
	f = strings.ToLower(strings.TrimSpace(f))
	if f == "" {
		f = "text"
	}
	if f != "text" && f != "json" {
		return fmt.Errorf("unknown log format: %q", f)
	}
	mu.Lock()
	format = f
	mu.Unlock()
	install()
	return nil
}

// SetOutput は出力先を変更し、既定ロガーを作り直します。
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	mu.Lock()
	output = w
	mu.Unlock()
	install()
}

// Setup はレベルと形式をまとめて設定します。
func Setup(levelName, formatName string) error {
	if err := SetLevel(levelName); err != nil {
		return err
	}
	return SetFormat(formatName)
}

// New は現在の設定でロガーを生成します。
func New() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(output, opts))
	}
	return slog.New(slog.NewTextHandler(output, opts))
}

func install() {
	slog.SetDefault(New())
}
