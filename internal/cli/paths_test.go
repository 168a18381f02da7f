package cli

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/matzehuels/stackgraph/pkg/config"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", "stackgraph")},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", "stackgraph")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigDefaultPath(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME is only honoured on linux")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	got, err := config.DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error = %v", err)
	}
	if want := filepath.Join("/tmp/custom-config", "stackgraph", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestLoadConfigMissingDefaultFile(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME is only honoured on linux")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c := New(os.Stderr, LogInfo)
	if err := c.loadConfig(); err != nil {
		t.Fatalf("loadConfig() without a config file error = %v", err)
	}
	if c.cfg != config.Default() {
		t.Errorf("loadConfig() = %+v, want defaults", c.cfg)
	}
}
