package startup

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.OS == "" || info.Arch == "" {
		t.Error("Expected OS and Arch to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

// clearPlayerEnv unsets PLAYER_* and the unprefixed names envconfig falls
// back to.
func clearPlayerEnv(t *testing.T) {
	t.Helper()
	fallbacks := []string{"COURSE_PATH", "LISTEN_HOST", "PORT", "PORT_RANGE_START", "PORT_RANGE_END",
		"WEB_DIR", "FFMPEG", "FFPROBE", "PROBE_TIMEOUT", "HWACCEL_PROBE_TIMEOUT", "CONVERT",
		"PLAYLIST_CACHE", "METRICS_ENABLED", "OPEN_BROWSER", "LOG_STATIC_FILES", "LOG_HEALTH_CHECKS", "LOG_LEVEL"}
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, EnvPrefix+"_") || slices.Contains(fallbacks, key) {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearPlayerEnv(t)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Port != 0 {
		t.Errorf("Port = %d, want 0", cfg.Port)
	}
	if cfg.PortRangeStart != 8002 || cfg.PortRangeEnd != 8020 {
		t.Errorf("Port range = %d-%d, want 8002-8020", cfg.PortRangeStart, cfg.PortRangeEnd)
	}
	if cfg.ProbeTimeout != 30*time.Second {
		t.Errorf("ProbeTimeout = %v", cfg.ProbeTimeout)
	}
	if cfg.HardwareProbeTimeout != 15*time.Second {
		t.Errorf("HardwareProbeTimeout = %v", cfg.HardwareProbeTimeout)
	}
	if !cfg.ConvertEnabled || !cfg.PlaylistCache || !cfg.MetricsEnabled {
		t.Errorf("Expected conversion, cache and metrics enabled by default: %+v", cfg)
	}
	if cfg.FFmpegPath != "ffmpeg" || cfg.FFprobePath != "ffprobe" {
		t.Errorf("Unexpected tool paths %q %q", cfg.FFmpegPath, cfg.FFprobePath)
	}
}

func TestLoadConfigEnvironment(t *testing.T) {
	clearPlayerEnv(t)
	t.Setenv("PLAYER_COURSE_PATH", "/courses/go")
	t.Setenv("PLAYER_PORT", "9100")
	t.Setenv("PLAYER_CONVERT", "false")
	t.Setenv("PLAYER_PROBE_TIMEOUT", "5s")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.CoursePath != "/courses/go" {
		t.Errorf("CoursePath = %q", cfg.CoursePath)
	}
	if cfg.Port != 9100 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.ConvertEnabled {
		t.Error("Expected conversion disabled")
	}
	if cfg.ProbeTimeout != 5*time.Second {
		t.Errorf("ProbeTimeout = %v", cfg.ProbeTimeout)
	}
}

func TestLoadConfigDotEnv(t *testing.T) {
	clearPlayerEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("PLAYER_PORT_RANGE_START=9000\nPLAYER_PLAYLIST_CACHE=false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("PLAYER_PORT_RANGE_START")
		os.Unsetenv("PLAYER_PLAYLIST_CACHE")
	})

	cfg, err := LoadConfig(envFile)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PortRangeStart != 9000 {
		t.Errorf("PortRangeStart = %d", cfg.PortRangeStart)
	}
	if cfg.PlaylistCache {
		t.Error("Expected playlist cache disabled from .env")
	}
}

func TestLoadConfigMissingDotEnv(t *testing.T) {
	clearPlayerEnv(t)
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("Missing .env should be ignored, got %v", err)
	}
}

func TestLoadConfigInvalidValue(t *testing.T) {
	clearPlayerEnv(t)
	t.Setenv("PLAYER_PORT", "eighty")

	if _, err := LoadConfig(""); err == nil {
		t.Error("Expected error for non-numeric port")
	}
}

func TestFinalize(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{CoursePath: dir, Port: 9123}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !filepath.IsAbs(cfg.CoursePath) {
		t.Errorf("Expected absolute course path, got %q", cfg.CoursePath)
	}
	if cfg.Port != 9123 {
		t.Errorf("Explicit port changed to %d", cfg.Port)
	}
	if cfg.Addr() != ":9123" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestFinalizeResolvesSymlink(t *testing.T) {
	target, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(t.TempDir(), "course")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	cfg := &Config{CoursePath: link, Port: 9123}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if cfg.CoursePath != target {
		t.Errorf("CoursePath = %q, want %q", cfg.CoursePath, target)
	}
}

func TestFinalizeErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"no path", Config{Port: 1}},
		{"missing path", Config{CoursePath: filepath.Join(dir, "nope"), Port: 1}},
		{"file not folder", Config{CoursePath: file, Port: 1}},
		{"bad log level", Config{CoursePath: dir, Port: 1, LogLevel: "chatty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if err := cfg.Finalize(); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestFindFreePort(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	busy := l.Addr().(*net.TCPAddr).Port

	port, err := FindFreePort("127.0.0.1", busy, busy+20)
	if err != nil {
		t.Skipf("no free port near %d: %v", busy, err)
	}
	if port == busy {
		t.Errorf("FindFreePort returned busy port %d", busy)
	}
	if port < busy || port > busy+20 {
		t.Errorf("Port %d outside range", port)
	}
}

func TestFindFreePortExhausted(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	busy := l.Addr().(*net.TCPAddr).Port

	if _, err := FindFreePort("127.0.0.1", busy, busy); err == nil {
		t.Error("Expected error when the only port is taken")
	}
	if _, err := FindFreePort("127.0.0.1", 10, 5); err == nil {
		t.Error("Expected error for inverted range")
	}
}

func TestListen(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	l, err := Listen(ctx, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer l.Close()

	done := make(chan error, 1)
	go func() {
		conn, err := l.Accept()
		if err == nil {
			conn.Close()
		}
		done <- err
	}()

	conn, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	conn.Close()

	if err := <-done; err != nil {
		t.Errorf("Accept: %v", err)
	}
}

func TestRouteGroup(t *testing.T) {
	tests := map[string]string{
		"/api/playlist":          "api/playlist",
		"/api/conversion-status": "api/conversion-status",
		"/media/{path:.*}":       "media",
		"/healthz":               "healthz",
		"/":                      "",
	}
	for path, want := range tests {
		if got := routeGroup(path); got != want {
			t.Errorf("routeGroup(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestGetRoutes(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/playlist", nil).Methods("GET")
	r.HandleFunc("/api/convert", nil).Methods("POST")
	r.PathPrefix("/static/").Handler(nil)

	routes, err := GetRoutes(r)
	if err != nil {
		t.Fatalf("GetRoutes: %v", err)
	}

	var got []string
	for _, ri := range routes {
		got = append(got, ri.Method+" "+ri.Path)
	}
	for _, want := range []string{"GET /api/playlist", "POST /api/convert", "* /static/"} {
		if !slices.Contains(got, want) {
			t.Errorf("routes %v missing %q", got, want)
		}
	}
}

func TestBrowserCommand(t *testing.T) {
	url := "http://localhost:" + strconv.Itoa(8002)

	tests := []struct {
		goos string
		name string
	}{
		{"windows", "rundll32"},
		{"darwin", "open"},
		{"linux", "xdg-open"},
		{"freebsd", "xdg-open"},
	}
	for _, tt := range tests {
		name, args := browserCommand(tt.goos, url)
		if name != tt.name {
			t.Errorf("%s: command = %q, want %q", tt.goos, name, tt.name)
		}
		if args[len(args)-1] != url {
			t.Errorf("%s: url should be last argument, got %v", tt.goos, args)
		}
	}
}

func TestServerConfigURL(t *testing.T) {
	if got := (ServerConfig{Port: 8005}).URL(); got != "http://localhost:8005" {
		t.Errorf("URL() = %q", got)
	}
}
