package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	contractcore "github.com/jihoonpark/contractcore"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := contractcore.DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			slog.Error("opening config", "error", err)
			os.Exit(1)
		}
		if err := json.NewDecoder(f).Decode(&cfg); err != nil {
			f.Close()
			slog.Error("parsing config", "error", err)
			os.Exit(1)
		}
		f.Close()
	}

	if v := os.Getenv("CONTRACTCORE_CHAT_BASE_URL"); v != "" {
		cfg.Chat.BaseURL = v
	}
	if v := os.Getenv("CONTRACTCORE_CHAT_PROVIDER"); v != "" {
		cfg.Chat.Provider = v
	}
	if v := os.Getenv("CONTRACTCORE_CHAT_MODEL"); v != "" {
		cfg.Chat.Model = v
	}
	if v := os.Getenv("CONTRACTCORE_EMBED_BASE_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}
	if v := os.Getenv("CONTRACTCORE_EMBED_PROVIDER"); v != "" {
		cfg.Embedding.Provider = v
	}
	if v := os.Getenv("CONTRACTCORE_EMBED_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("CONTRACTCORE_OCR_API_KEY"); v != "" {
		cfg.OCR.APIKey = v
	}
	if v := os.Getenv("CONTRACTCORE_CHAT_API_KEY"); v != "" {
		cfg.Chat.APIKey = v
	}
	if v := os.Getenv("CONTRACTCORE_EMBED_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if cfg.Chat.Provider == "openai" && cfg.Chat.APIKey == "" {
			cfg.Chat.APIKey = v
		}
		if cfg.Embedding.Provider == "openai" && cfg.Embedding.APIKey == "" {
			cfg.Embedding.APIKey = v
		}
		if cfg.Formatter.Provider == "openai" && cfg.Formatter.APIKey == "" {
			cfg.Formatter.APIKey = v
		}
	}
	if v := os.Getenv("CONTRACTCORE_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	apiKey := cfg.AuthToken
	if v := os.Getenv("CONTRACTCORE_API_KEY"); v != "" {
		apiKey = v
	}
	corsOrigins := os.Getenv("CONTRACTCORE_CORS_ORIGINS")

	engine, err := contractcore.New(cfg)
	if err != nil {
		slog.Error("creating engine", "error", err)
		os.Exit(1)
	}

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 5*time.Minute)
	if err := engine.Load(loadCtx); err != nil {
		loadCancel()
		slog.Error("loading case corpus", "error", err)
		os.Exit(1)
	}
	loadCancel()

	h := newHandler(engine, filepath.Join(cfg.StorageDir, "uploads"))
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/pdf/upload", h.handlePDFUpload)
	mux.HandleFunc("POST /api/user-query", h.handleUserQuery)
	mux.HandleFunc("POST /upload", h.handleUpload)
	mux.HandleFunc("POST /reset", h.handleReset)
	mux.HandleFunc("GET /health", h.handleHealth)

	// Middleware chain: recovery -> cors -> auth -> logging -> mux
	var handler http.Handler = mux
	handler = logMiddleware(handler)
	handler = authMiddleware(apiKey, handler)
	handler = corsMiddleware(corsOrigins, handler)
	handler = recoveryMiddleware(handler)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	if engine.ClauseIndex != nil {
		if err := engine.ClauseIndex.Close(); err != nil {
			slog.Error("closing clause index", "error", err)
		}
	}

	slog.Info("server stopped")
}
