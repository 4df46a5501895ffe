package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// resetViper clears the shared viper state so tests do not leak config into
// each other.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	setDefaults()
}

func TestInitConfigReadsLocalFile(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	content := "seed: 4242\nemployees:\n  n: 7\n"
	if err := os.WriteFile(filepath.Join(dir, "benchmatch.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	initConfig()

	if got := viper.ConfigFileUsed(); got == "" {
		t.Fatal("expected benchmatch.yaml in the working directory to be picked up")
	}
	if got := viper.GetInt64("seed"); got != 4242 {
		t.Fatalf("expected seed 4242 from the config file, got %d", got)
	}
	if got := viper.GetInt("employees.n"); got != 7 {
		t.Fatalf("expected employees.n 7 from the config file, got %d", got)
	}
}

func TestInitConfigMissingFileUsesDefaults(t *testing.T) {
	resetViper(t)
	t.Chdir(t.TempDir())

	initConfig()

	config, err := getConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Employees == nil || config.Employees.N != 50 {
		t.Fatalf("expected default employees.n 50, got %+v", config.Employees)
	}
}
