package startup

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Lacarte/video-player/internal/logging"
)

// RouteInfo describes one registered route.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// GetRoutes lists the routes registered on router. Routes without a method
// restriction are reported with method "*".
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			path, err = route.GetPathRegexp()
			if err != nil {
				return nil
			}
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}

		for _, m := range methods {
			routes = append(routes, RouteInfo{Method: m, Path: path, Name: route.GetName()})
		}
		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs the route table at debug level and the access log
// settings at info level.
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	section("HTTP SERVER SETUP")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		groups := make(map[string][]RouteInfo)
		for _, r := range routes {
			g := routeGroup(r.Path)
			groups[g] = append(groups[g], r)
		}

		keys := make([]string, 0, len(groups))
		for k := range groups {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		logging.Debug("  Registered routes (%d total):", len(routes))
		for _, g := range keys {
			label := g
			if label == "" {
				label = "root"
			}
			logging.Debug("  [%s]", label)
			for _, r := range groups[g] {
				logging.Debug("    %-6s %s", r.Method, r.Path)
			}
		}
	}

	logging.Info("  Static file logging:  %s", onOff(logStaticFiles, "PLAYER_LOG_STATIC_FILES"))
	logging.Info("  Health check logging: %s", onOff(logHealthChecks, "PLAYER_LOG_HEALTH_CHECKS"))
}

func onOff(on bool, env string) string {
	if on {
		return "ON"
	}
	return fmt.Sprintf("OFF (set %s=true to enable)", env)
}

// routeGroup returns "api/<name>" for API routes and the first path
// segment otherwise.
func routeGroup(path string) string {
	first, rest, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if first == "api" && rest != "" {
		name, _, _ := strings.Cut(rest, "/")
		return "api/" + name
	}
	return first
}

// ServerConfig holds what LogServerStarted prints.
type ServerConfig struct {
	Port            int
	CoursePath      string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// URL returns the local address of the player.
func (c ServerConfig) URL() string {
	return fmt.Sprintf("http://localhost:%d", c.Port)
}

// LogServerStarted logs where the player can be reached.
func LogServerStarted(config ServerConfig) {
	section("SERVER STARTED")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("  Course:          %s", config.CoursePath)
	logging.Info("")
	logging.Info("  Player:          %s", config.URL())
	if config.MetricsEnabled {
		logging.Info("  Metrics:         %s/metrics", config.URL())
	} else {
		logging.Info("  Metrics:         DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	section(fmt.Sprintf("SHUTDOWN INITIATED (received %s)", signal))
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}
