package app

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestBuildVersion(t *testing.T) {
	v := BuildVersion()
	if !strings.HasPrefix(v, Version+" (commit: ") {
		t.Errorf("BuildVersion() = %q, want version prefix", v)
	}
}

func TestFormatVersion(t *testing.T) {
	stamped := &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
		{Key: "vcs.modified", Value: "false"},
	}}
	dirty := &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "abc123"},
		{Key: "vcs.modified", Value: "true"},
	}}

	tests := []struct {
		name   string
		commit string
		built  string
		info   *debug.BuildInfo
		want   string
	}{
		{
			name: "no build info", commit: "unknown", built: "unknown",
			want: "1.2.0 (commit: unknown, built: unknown)",
		},
		{
			name: "vcs stamp fills unknowns", commit: "unknown", built: "unknown", info: stamped,
			want: "1.2.0 (commit: 0123456789ab, built: 2026-10-01T12:00:00Z)",
		},
		{
			name: "ldflags win over vcs stamp", commit: "release", built: "today", info: stamped,
			want: "1.2.0 (commit: release, built: today)",
		},
		{
			name: "modified tree", commit: "unknown", built: "unknown", info: dirty,
			want: "1.2.0 (commit: abc123-dirty, built: unknown)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatVersion("1.2.0", tt.commit, tt.built, tt.info); got != tt.want {
				t.Errorf("formatVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}
