package cmd

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/wavewatch/wavewatch/internal/utils"
	"github.com/wavewatch/wavewatch/pkg/loader"
	"github.com/wavewatch/wavewatch/pkg/notify"
	"github.com/wavewatch/wavewatch/pkg/runner"
	"github.com/wavewatch/wavewatch/pkg/storage"
)

const defaultSourceURL = "https://lsd.law/recent-decisions"

func setDefaults() {
	viper.SetDefault("schools", []string{})
	viper.SetDefault("filter_enabled", true)
	viper.SetDefault("source_url", defaultSourceURL)
	viper.SetDefault("state_file", "state.json")
	viper.SetDefault("ntfy.server", notify.DefaultServer)
	viper.SetDefault("ntfy.topic", "")
	viper.SetDefault("ntfy.title", "New Law School Wave!")
	viper.SetDefault("ntfy.priority", string(notify.PriorityHigh))
	viper.SetDefault("ntfy.tags", "scales")
	viper.SetDefault("timeouts.navigation", loader.DefaultNavigationTimeout)
	viper.SetDefault("timeouts.hydration", loader.DefaultHydrationTimeout)
	viper.SetDefault("timeouts.notify", notify.DefaultTimeout)
}

func statePath() string {
	return viper.GetString("state_file")
}

// runnerConfig builds the runner configuration from viper. htmlPath, when set,
// replaces the live page with a saved copy.
func runnerConfig(htmlPath string, dryRun bool) (runner.Config, error) {
	priority, err := notify.ParsePriority(viper.GetString("ntfy.priority"))
	if err != nil {
		return runner.Config{}, err
	}

	schools := utils.NormalizeSchools(viper.GetStringSlice("schools"))
	filterEnabled := viper.GetBool("filter_enabled")
	if filterEnabled && len(schools) == 0 {
		utils.Log.Warn("filter_enabled is set but no schools are configured; nothing will match.")
	}

	topic := viper.GetString("ntfy.topic")
	if topic == "" && !dryRun {
		return runner.Config{}, fmt.Errorf("ntfy.topic is not set; configure it in %s or use --dry-run", configLocation())
	}

	var l loader.Loader
	if htmlPath != "" {
		l = &loader.FileLoader{Path: htmlPath}
	} else {
		hl := loader.NewHTTPLoader()
		hl.NavigationTimeout = viper.GetDuration("timeouts.navigation")
		hl.HydrationTimeout = viper.GetDuration("timeouts.hydration")
		l = hl
	}

	n := notify.NewNtfy(viper.GetString("ntfy.server"))
	n.Timeout = viper.GetDuration("timeouts.notify")

	return runner.Config{
		Loader:    l,
		Notifier:  n,
		Store:     storage.NewFileStore(statePath()),
		Filter:    runner.FilterConfig{Schools: schools, Enabled: filterEnabled},
		SourceURL: viper.GetString("source_url"),
		Topic:     topic,
		Title:     viper.GetString("ntfy.title"),
		Priority:  priority,
		Tags:      viper.GetString("ntfy.tags"),
		DryRun:    dryRun,
		Log:       utils.Log,
	}, nil
}

func configLocation() string {
	if f := viper.ConfigFileUsed(); f != "" {
		return f
	}
	return "$HOME/.wavewatch.yaml"
}
