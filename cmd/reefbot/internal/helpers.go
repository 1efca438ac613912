package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/tinyland-inc/reefbot/pkg/agent"
	"github.com/tinyland-inc/reefbot/pkg/config"
)

const Logo = "🪸"

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

func GetConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".reefbot", "config.json")
}

func LoadConfig() (*config.Config, error) {
	return config.LoadConfig(GetConfigPath())
}

// MediatorOptions maps the config knobs onto the decision pipeline.
func MediatorOptions(cfg *config.Config) agent.Options {
	return agent.Options{
		InputMaxChars:  cfg.Bot.InputMaxChars,
		ReplyMaxChars:  cfg.Bot.ReplyMaxChars,
		RateInterval:   time.Duration(cfg.Bot.RateLimitSeconds) * time.Second,
		RequestTimeout: time.Duration(cfg.Bot.RequestTimeoutSeconds) * time.Second,
	}
}

// FormatVersion returns the version string with optional git commit
func FormatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

// FormatBuildInfo returns build time and go version info
func FormatBuildInfo() (string, string) {
	build := buildTime
	goVer := goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	return build, goVer
}

// GetVersion returns the version string
func GetVersion() string {
	return version
}
