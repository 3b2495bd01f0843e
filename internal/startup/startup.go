package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/Lacarte/video-player/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// PrintStartupInfo prints the banner and a short system summary.
func PrintStartupInfo() {
	printBanner()
	logSystemInfo()
}

func section(title string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("%s", title)
	logging.Info("------------------------------------------------------------")
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// ToolStatus reports which external tools answered a version check.
type ToolStatus struct {
	FFmpeg  bool
	FFprobe bool
}

// CheckTools looks for ffmpeg and ffprobe and logs what it finds. Missing
// tools are warnings: playback works without them, durations read as zero
// and nothing is converted.
func CheckTools(ffmpegPath, ffprobePath string) ToolStatus {
	section("TOOLS")

	var status ToolStatus
	if err := checkTool(ffprobePath); err != nil {
		logging.Warn("  ffprobe check failed: %v", err)
		logging.Warn("  Video durations will show as 0 and compatibility checks are skipped")
	} else {
		status.FFprobe = true
		logging.Info("  [OK] ffprobe is available")
	}

	if err := checkTool(ffmpegPath); err != nil {
		logging.Warn("  ffmpeg check failed: %v", err)
		logging.Warn("  Incompatible videos cannot be converted")
	} else {
		status.FFmpeg = true
		logging.Info("  [OK] ffmpeg is available")
	}

	return status
}

func checkTool(name string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%s not found in PATH", name)
	}
	logging.Debug("  %s path: %s", name, path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return fmt.Errorf("failed to get %s version: %w", name, err)
	}

	if first, _, _ := strings.Cut(string(output), "\n"); first != "" {
		logging.Debug("  %s", strings.TrimSpace(first))
	}
	return nil
}

// LogConversionInit logs whether the conversion pipeline will run.
func LogConversionInit(enabled bool, reason string) {
	section("CONVERSION PIPELINE")
	if !enabled {
		logging.Info("  Conversion disabled (%s)", reason)
		return
	}
	logging.Info("  Compatibility scan starts in the background")
	logging.Info("  Conversion waits for confirmation from the player")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func printBanner() {
	banner := `
------------------------------------------------------------
 _   ___    __              ___  __
| | / (_)__/ /__ ___    ___/ _ \/ /__ ___ _____ ____
| |/ / / _  / -_) _ \  /___/ ___/ / _ '/ // / -_) __/
|___/_/\_,_/\__/\___/     /_/  /_/\_,_/\_, /\__/_/
                                      /___/
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}
}
