package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Lacarte/video-player/internal/conversion"
	"github.com/Lacarte/video-player/internal/filesystem"
	"github.com/Lacarte/video-player/internal/handlers"
	"github.com/Lacarte/video-player/internal/logging"
	"github.com/Lacarte/video-player/internal/metrics"
	"github.com/Lacarte/video-player/internal/middleware"
	"github.com/Lacarte/video-player/internal/scanner"
	"github.com/Lacarte/video-player/internal/startup"
	"github.com/Lacarte/video-player/internal/streaming"
	"github.com/Lacarte/video-player/internal/transcoder"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := newApp(run).Run(os.Args); err != nil {
		startup.LogFatal("%v", err)
	}
}

func newApp(action cli.ActionFunc) *cli.App {
	return &cli.App{
		Name:      "video-player",
		Usage:     "play a folder of course videos in the browser",
		ArgsUsage: "[course folder]",
		Version:   startup.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "course folder to serve (or PLAYER_COURSE_PATH)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "HTTP port; 0 picks the first free port in PLAYER_PORT_RANGE_START..END",
			},
			&cli.BoolFlag{
				Name:  "no-convert",
				Usage: "skip the compatibility scan and conversion",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "open the player in the default browser",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file read before the environment; ignored if missing",
			},
		},
		Action: action,
	}
}

// applyFlags layers command-line values over the environment.
func applyFlags(c *cli.Context, config *startup.Config) {
	switch {
	case c.IsSet("path"):
		config.CoursePath = c.String("path")
	case c.Args().Present():
		config.CoursePath = c.Args().First()
	}
	if c.IsSet("port") {
		config.Port = c.Int("port")
	}
	if c.Bool("no-convert") {
		config.ConvertEnabled = false
	}
	if c.IsSet("log-level") {
		config.LogLevel = c.String("log-level")
	}
	if c.Bool("open") {
		config.OpenBrowser = true
	}
}

// conversionEnabled decides whether the pipeline runs and, if not, why.
func conversionEnabled(config *startup.Config, tools startup.ToolStatus) (bool, string) {
	switch {
	case !config.ConvertEnabled:
		return false, "disabled by configuration"
	case !tools.FFprobe:
		return false, "ffprobe not available"
	case !tools.FFmpeg:
		return false, "ffmpeg not available"
	}
	return true, ""
}

// resolveWebDir finds the front end. A relative directory is looked up in
// the working directory first and then next to the executable.
func resolveWebDir(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	exe, err := os.Executable()
	if err != nil {
		return dir
	}
	candidate := filepath.Join(filepath.Dir(exe), dir)
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate
	}
	return dir
}

// buildHandler applies middleware: compression outermost, then access
// logging, then request metrics.
func buildHandler(router http.Handler, config *startup.Config) http.Handler {
	handler := router
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.ServiceName = "VideoPlayer/" + startup.Version
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler = middleware.Logger(loggingConfig)(handler)

	return middleware.Compression(middleware.DefaultCompressionConfig())(handler)
}

func run(c *cli.Context) error {
	startTime := time.Now()

	config, err := startup.LoadConfig(c.String("env-file"))
	if err != nil {
		return err
	}
	applyFlags(c, config)
	if err := config.Finalize(); err != nil {
		return err
	}
	config.WebDir = resolveWebDir(config.WebDir)

	startup.PrintStartupInfo()
	config.Log()

	metrics.InitializeMetrics(startup.Version, startup.Commit, startup.GoVersion)
	filesystem.SetObserver(metrics.NewFilesystemObserver())

	tools := startup.CheckTools(config.FFmpegPath, config.FFprobePath)

	converter := transcoder.NewConverter(transcoder.NewExecRunner(), transcoder.Config{
		FFmpegPath:           config.FFmpegPath,
		FFprobePath:          config.FFprobePath,
		ProbeTimeout:         config.ProbeTimeout,
		HardwareProbeTimeout: config.HardwareProbeTimeout,
	})
	prober := converter.Prober()

	cache := scanner.NewCache(scanner.New(config.CoursePath), config.PlaylistCache)

	pipeline := conversion.NewPipeline(config.CoursePath, prober, converter)
	pipeline.OnConverted(cache.Invalidate)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the compatibility scan in background (non-blocking)
	enabled, reason := conversionEnabled(config, tools)
	startup.LogConversionInit(enabled, reason)
	pipelineDone := make(chan struct{})
	if enabled {
		go func() {
			defer close(pipelineDone)
			if err := pipeline.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logging.Error("Conversion pipeline: %v", err)
			}
		}()
	} else {
		pipeline.Skip()
		close(pipelineDone)
	}

	h := handlers.New(cache, prober, pipeline, handlers.Config{
		CoursePath: config.CoursePath,
		WebDir:     config.WebDir,
		Port:       config.Port,
		Stream:     streaming.DefaultWriterConfig(),
	})
	router := h.Router(config.MetricsEnabled)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	srv := &http.Server{
		Handler:      buildHandler(router, config),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // streams are bounded by the per-chunk write timeout instead
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	listener, err := startup.Listen(ctx, config.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", config.Addr(), err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(listener)
	}()

	serverConfig := startup.ServerConfig{
		Port:            config.Port,
		CoursePath:      config.CoursePath,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	}
	startup.LogServerStarted(serverConfig)

	if config.OpenBrowser {
		if err := startup.OpenBrowser(serverConfig.URL()); err != nil {
			logging.Warn("Could not open browser: %v", err)
		}
	}

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		startup.LogShutdownInitiated(sig.String())
	}

	cancel()
	return shutdown(srv, pipelineDone)
}

// shutdown waits for the pipeline to notice cancellation, then drains the
// HTTP server.
func shutdown(srv *http.Server, pipelineDone <-chan struct{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	startup.LogShutdownStep("Stopping conversion pipeline")
	select {
	case <-pipelineDone:
		startup.LogShutdownStepComplete("Conversion pipeline stopped")
	case <-ctx.Done():
		logging.Warn("Conversion pipeline did not stop within %v", shutdownTimeout)
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
	return nil
}
