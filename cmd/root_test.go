package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/guimove/greendc/internal/config"
)

// isolate gives each test a clean viper, an empty working directory and an
// empty home so no real greendc.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	viper.Reset()
	bindFlags()
	t.Cleanup(func() {
		viper.Reset()
		bindFlags()
		cfgFile = ""
		cfg = config.Config{}
	})
	cfgFile = ""

	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(dir)
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	if err := loadConfig(); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	want := config.Default()
	if cfg.Simulation != want.Simulation {
		t.Errorf("simulation = %+v, want %+v", cfg.Simulation, want.Simulation)
	}
	if cfg.Evaluation.CacheTTL != want.Evaluation.CacheTTL {
		t.Errorf("cache ttl = %v", cfg.Evaluation.CacheTTL)
	}
}

func TestLoadConfig_EnvOverridesUnsetKeys(t *testing.T) {
	isolate(t)
	cacheDir := filepath.Join(t.TempDir(), "cache")
	t.Setenv("GREENDC_EVALUATION_CACHE_DIR", cacheDir)
	t.Setenv("GREENDC_WEATHER_CLOUD_COVER", "0.25")

	if err := loadConfig(); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Evaluation.CacheDir != cacheDir {
		t.Errorf("cache dir = %q, want %q", cfg.Evaluation.CacheDir, cacheDir)
	}
	if cfg.Weather.CloudCover != 0.25 {
		t.Errorf("cloud cover = %v, want 0.25", cfg.Weather.CloudCover)
	}
}

func TestLoadConfig_FileOnSearchPath(t *testing.T) {
	dir := isolate(t)
	data := "simulation:\n  battery_capacity_kwh: 400\n"
	if err := os.WriteFile(filepath.Join(dir, "greendc.yaml"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := loadConfig(); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Simulation.BatteryCapacityKWh != 400 {
		t.Errorf("battery = %v, want 400", cfg.Simulation.BatteryCapacityKWh)
	}
}

func TestLoadConfig_MalformedFileOnSearchPath(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, "greendc.yaml"), []byte("simulation: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := loadConfig()
	if err == nil {
		t.Fatal("expected an error for a malformed config file")
	}
	if !strings.Contains(err.Error(), "reading config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	cfgFile = filepath.Join(dir, "nope.yaml")

	if err := loadConfig(); err == nil {
		t.Fatal("expected an error for a missing --config file")
	}
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	if err := loadConfig(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	if err := versionCmd.RunE(versionCmd, nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"greendc dev", "commit none", "built unknown"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
