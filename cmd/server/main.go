package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/baditaflorin/go_cra_records/internal/config"
	"github.com/baditaflorin/go_cra_records/internal/store"
	"github.com/baditaflorin/go_cra_records/pkg/records"
	"github.com/baditaflorin/l"
	"github.com/valyala/fasthttp"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "YAML configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	readTimeout := flag.Duration("read-timeout", 0, "HTTP read timeout (overrides config)")
	writeTimeout := flag.Duration("write-timeout", 0, "HTTP write timeout (overrides config)")
	maxRequestSize := flag.Int("max-request-size", 0, "Maximum upload size in bytes (overrides config)")
	concurrency := flag.Int("concurrency", -1, "Maximum number of concurrent requests (0 = fasthttp default)")
	warmUp := flag.Bool("warm-up", false, "Perform system warm-up on startup")
	logFile := flag.String("log-file", "", "Log file path (empty = stdout)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Flags win over the file
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *readTimeout > 0 {
		cfg.Server.ReadTimeout = *readTimeout
	}
	if *writeTimeout > 0 {
		cfg.Server.WriteTimeout = *writeTimeout
	}
	if *maxRequestSize > 0 {
		cfg.Server.MaxRequestSize = *maxRequestSize
	}
	if *concurrency >= 0 {
		cfg.Server.Concurrency = *concurrency
	}
	if *warmUp {
		cfg.Server.WarmUp = true
	}
	if *logFile != "" {
		cfg.Logging.File = *logFile
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("Starting CRA record server",
		"port", cfg.Server.Port,
		"read_timeout", cfg.Server.ReadTimeout,
		"write_timeout", cfg.Server.WriteTimeout,
		"max_request_size", cfg.Server.MaxRequestSize,
		"concurrency", cfg.Server.Concurrency,
	)

	analyzer, err := newAnalyzer(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize analyzer", "error", err)
		os.Exit(1)
	}

	a := &app{
		analyzer: analyzer,
		datasets: store.New(),
		logger:   logger,
		cfg:      cfg,
	}

	// Create HTTP server with fasthttp
	server := &fasthttp.Server{
		Handler:               a.requestHandler,
		Name:                  "CRARecordServer",
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		MaxRequestBodySize:    cfg.Server.MaxRequestSize,
		Concurrency:           cfg.Server.Concurrency,
		DisableKeepalive:      false,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
		Logger:                nil, // we'll handle logging ourselves
	}

	// Set up graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			logger.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", "address", addr)
	if err := server.ListenAndServe(addr); err != nil {
		logger.Error("Server error", "error", err)
		return
	}

	<-idleConnsClosed
	logger.Info("Server stopped")
}

// newAnalyzer builds the record analyzer from the normalizer and cache settings.
func newAnalyzer(cfg *config.Config, logger l.Logger) (*records.Analyzer, error) {
	opts := []records.Option{
		records.WithLogger(logger),
		records.WithTokenizer(records.TokenizerType(cfg.Normalizer.Tokenizer)),
		records.WithParallel(cfg.Normalizer.Parallel),
		records.WithWorkers(cfg.Normalizer.Workers),
		records.WithBatchSize(cfg.Normalizer.BatchSize),
		records.WithParallelThreshold(cfg.Normalizer.ParallelThreshold),
		records.WithExportDir(cfg.Export.TempDir),
	}
	if cfg.Cache.Enabled {
		opts = append(opts, records.WithCache(cfg.Cache.Capacity))
	}

	analyzer, err := records.New(opts...)
	if err != nil {
		return nil, err
	}

	if cfg.Server.WarmUp {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		warmCfg := records.DefaultWarmUpConfig()
		analyzer.WarmUp(ctx, warmCfg)
	}

	logger.Info("Analyzer initialized",
		"tokenizer", cfg.Normalizer.Tokenizer,
		"parallel", cfg.Normalizer.Parallel,
		"cache", cfg.Cache.Enabled,
		"warm_up", cfg.Server.WarmUp,
		"cpus", runtime.NumCPU(),
	)
	return analyzer, nil
}

// createLogger creates and configures a logger
func createLogger(cfg config.LoggingConfig) (l.Logger, error) {
	// Create a logger factory
	factory := l.NewStandardFactory()

	// Configure the logger
	var output io.Writer = os.Stdout
	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	// Create the logger
	logger, err := factory.CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  cfg.JSON,
		AsyncWrite:  true,
		BufferSize:  1024 * 1024,       // 1MB
		MaxFileSize: 100 * 1024 * 1024, // 100MB
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}
