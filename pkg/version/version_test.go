package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	Version, Commit, BuildDate = "v1.2.3", "abc123", "2026-01-01"
	t.Cleanup(func() { Version, Commit, BuildDate = "dev", "none", "unknown" })

	info := Get()
	if info.Version != "v1.2.3" || info.Commit != "abc123" || info.BuildDate != "2026-01-01" {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}

	s := info.String()
	for _, want := range []string{"greendc v1.2.3", "commit abc123", "built 2026-01-01", runtime.GOOS + "/" + runtime.GOARCH} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
