// voxserver exposes the transcription service consumed by the voxtyped
// daemon: POST /transcribe and GET /health. Speech recognition is
// delegated to a faster-whisper backend, optional text formatting to a
// local ollama instance.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"voxtyped/server"
)

func main() {
	hostFlag := flag.String("host", "0.0.0.0", "Host to bind to")
	portFlag := flag.Int("port", 18031, "Port to bind to")
	whisperFlag := flag.String("whisper-url", "http://localhost:8000", "faster-whisper backend base URL")
	modelFlag := flag.String("whisper-model", "large-v3", "Whisper model name")
	ollamaFlag := flag.String("ollama-url", "http://localhost:11434", "Ollama API base URL")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	oracle := server.NewWhisperOracle(*whisperFlag, *modelFlag)
	formatter := server.NewOllamaFormatter(*ollamaFlag, logger)
	handler := server.New(oracle, formatter, logger)

	addr := net.JoinHostPort(*hostFlag, fmt.Sprintf("%d", *portFlag))
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info().
		Str("addr", addr).
		Str("whisper", *whisperFlag).
		Str("ollama", *ollamaFlag).
		Msg("voxserver listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("voxserver stopped")
}
