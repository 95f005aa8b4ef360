// Package logging configura o slog de diagnóstico em arquivo. A tela fica
// com o renderer do dashboard, então nada é logado no stdout durante o loop.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// NewFileLogger returns a logger appending text records to path, plus a
// close function. An empty path discards everything.
func NewFileLogger(path string) (*slog.Logger, func() error, error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, f.Close, nil
}
