package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	info := Info{CommitHash: "dev", BuildTime: "unknown", Version: "dev"}
	fillFromBuildInfo(&info, bi)
	assert.Equal(t, "v0.4.0", info.Version)
	assert.Equal(t, "0123456789abcdef", info.CommitHash)
	assert.Equal(t, "2026-01-02T03:04:05Z", info.BuildTime)
	assert.Equal(t, "0123456", info.Short())

	// ldflags win over build info
	info = Info{CommitHash: "feedface", BuildTime: "today", Version: "v1.0.0"}
	fillFromBuildInfo(&info, bi)
	assert.Equal(t, "v1.0.0", info.Version)
	assert.Equal(t, "feedface", info.CommitHash)
	assert.Equal(t, "today", info.BuildTime)

	info = Info{Version: "dev"}
	fillFromBuildInfo(&info, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.Equal(t, "dev", info.Version)
}

func TestString(t *testing.T) {
	info := Info{CommitHash: "abc", BuildTime: "now", Version: "v1", GoVersion: "go1.24", Platform: "linux/amd64"}
	assert.Equal(t, "m6rc v1 (commit abc, built now, go1.24 linux/amd64)", info.String())
	assert.Equal(t, "abc", info.Short())
}
