package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// Init inicializa o logger global.
// format "text" usa o handler colorido (desenvolvimento); qualquer outro valor usa JSON.
func Init(format, level string) {
	slog.SetDefault(New(os.Stdout, format, level))
}

// New cria um logger estruturado sem alterar o global.
func New(w io.Writer, format, level string) *slog.Logger {
	lvl := parseLevel(level)

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = tint.NewHandler(w, &tint.Options{Level: lvl, AddSource: true})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Info registra uma mensagem de informação.
func Info(msg string, args ...any) {
	slog.Info(msg, args...)
}

// Warn registra um aviso.
func Warn(msg string, args ...any) {
	slog.Warn(msg, args...)
}

// Error registra uma mensagem de erro.
func Error(msg string, args ...any) {
	slog.Error(msg, args...)
}

// Debug registra uma mensagem de depuração.
func Debug(msg string, args ...any) {
	slog.Debug(msg, args...)
}
