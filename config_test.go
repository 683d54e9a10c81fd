package campyros

import (
	"os"
	"testing"
)

func TestSimConfigDefault(t *testing.T) {
	os.Unsetenv("CAMPYROS_CONFIG")
	cfgLoaded = false
	if dir := simConfig().outputDir; dir != "." {
		t.Fatalf("default output dir %q", dir)
	}
	// The config is cached after the first load.
	if !cfgLoaded {
		t.Fatal("config not cached")
	}
}
