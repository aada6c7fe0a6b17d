package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/wavewatch/wavewatch/pkg/loader"
	"github.com/wavewatch/wavewatch/pkg/notify"
)

func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	setDefaults()
	t.Cleanup(viper.Reset)
}

func TestRunnerConfig(t *testing.T) {
	resetConfig(t)
	viper.Set("schools", []string{" Harvard University ", "", "Yale University"})
	viper.Set("ntfy.topic", "waves")
	viper.Set("ntfy.priority", "urgent")

	cfg, err := runnerConfig("", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Filter.Schools) != 2 || !cfg.Filter.Enabled {
		t.Fatalf("unexpected filter %#v", cfg.Filter)
	}
	if cfg.Topic != "waves" || cfg.Priority != notify.PriorityUrgent || cfg.Tags != "scales" {
		t.Fatalf("unexpected notification settings %#v", cfg)
	}
	if cfg.SourceURL != defaultSourceURL {
		t.Fatalf("unexpected source url %q", cfg.SourceURL)
	}
	hl, ok := cfg.Loader.(*loader.HTTPLoader)
	if !ok {
		t.Fatalf("expected HTTP loader, got %T", cfg.Loader)
	}
	if hl.HydrationTimeout != loader.DefaultHydrationTimeout {
		t.Fatalf("unexpected hydration timeout %v", hl.HydrationTimeout)
	}
}

func TestRunnerConfig_RequiresTopic(t *testing.T) {
	resetConfig(t)

	if _, err := runnerConfig("", false); err == nil {
		t.Fatal("expected an error without ntfy.topic")
	}
	cfg, err := runnerConfig("page.html", true)
	if err != nil {
		t.Fatalf("dry run should not need a topic: %v", err)
	}
	if _, ok := cfg.Loader.(*loader.FileLoader); !ok {
		t.Fatalf("expected file loader, got %T", cfg.Loader)
	}
}

func TestRunnerConfig_BadPriority(t *testing.T) {
	resetConfig(t)
	viper.Set("ntfy.topic", "waves")
	viper.Set("ntfy.priority", "loud")

	if _, err := runnerConfig("", false); err == nil {
		t.Fatal("expected an error for an unknown priority")
	}
}
