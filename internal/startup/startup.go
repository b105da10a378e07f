package startup

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"pihole-exporter/internal/logging"
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

// Config holds all exporter configuration. It is immutable for the
// process lifetime; there is no hot-reload.
type Config struct {
	// BindHost and BindPort form the exporter's own listen address.
	BindHost string
	BindPort string

	// PiholeHost is the Pi-hole instance (host or host:port, no scheme).
	PiholeHost string
	// PiholeTLS selects https for Pi-hole communication.
	PiholeTLS bool
	// PiholePassword is the Pi-hole app password; empty means the
	// instance allows unauthenticated statistics access.
	PiholePassword string
	// PiholeTimeout bounds every request to Pi-hole.
	PiholeTimeout time.Duration

	// UpstreamStats additionally scrapes /api/stats/upstreams.
	UpstreamStats bool

	// LogHealthChecks controls request logging for the health endpoints.
	LogHealthChecks bool
}

// LoadConfig loads and validates configuration from environment
// variables. A .env file in the working directory is applied first when
// present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		logging.Info("Loaded environment from .env file")
	}

	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	bindHost := getEnv("EXPORTER_HOST", "127.0.0.1")
	bindPort := getEnv("EXPORTER_PORT", "3141")
	piholeHost := getEnv("PIHOLE_HOST", "localhost")
	piholeTLS := getEnvBool("PIHOLE_TLS", false)
	piholePassword := os.Getenv("PIHOLE_PASSWORD")
	timeoutStr := getEnv("PIHOLE_TIMEOUT", "30s")
	upstreamStats := getEnvBool("UPSTREAM_STATS", true)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", false)

	logging.Info("  EXPORTER_HOST:     %s", bindHost)
	logging.Info("  EXPORTER_PORT:     %s", bindPort)
	logging.Info("  PIHOLE_HOST:       %s", piholeHost)
	logging.Info("  PIHOLE_TLS:        %v", piholeTLS)
	logging.Info("  PIHOLE_PASSWORD:   %s", maskSecret(piholePassword))
	logging.Info("  PIHOLE_TIMEOUT:    %s", timeoutStr)
	logging.Info("  UPSTREAM_STATS:    %v", upstreamStats)
	logging.Info("  LOG_HEALTH_CHECKS: %v", logHealthChecks)
	logging.Info("  LOG_LEVEL:         %s", logging.GetLevel())

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		logging.Warn("  Invalid PIHOLE_TIMEOUT, using default: 30s")
		timeout = 30 * time.Second
	}

	if piholeHost == "" {
		return nil, fmt.Errorf("PIHOLE_HOST must not be empty")
	}
	if _, err := strconv.Atoi(bindPort); err != nil {
		return nil, fmt.Errorf("invalid EXPORTER_PORT %q: %w", bindPort, err)
	}

	if piholePassword == "" {
		logging.Warn("  No PIHOLE_PASSWORD set; assuming unauthenticated statistics access")
	}

	return &Config{
		BindHost:        bindHost,
		BindPort:        bindPort,
		PiholeHost:      piholeHost,
		PiholeTLS:       piholeTLS,
		PiholePassword:  piholePassword,
		PiholeTimeout:   timeout,
		UpstreamStats:   upstreamStats,
		LogHealthChecks: logHealthChecks,
	}, nil
}

// LogServerStarted logs the final startup summary
func LogServerStarted(addr string, startupTime time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("STARTUP COMPLETE in %v", startupTime)
	logging.Info("------------------------------------------------------------")
	logging.Info("  Metrics:  http://%s/metrics", addr)
	logging.Info("  Health:   http://%s/healthz", addr)
	logging.Info("")
}

// LogShutdownInitiated logs the start of graceful shutdown
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (signal: %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownComplete logs the end of graceful shutdown
func LogShutdownComplete() {
	logging.Info("  Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func printBanner() {
	banner := `
------------------------------------------------------------
   Pi-hole Prometheus Exporter
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
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))
	logging.Info("")
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	return "********"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
