package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo_Semver(t *testing.T) {
	tests := []struct {
		name        string
		version     string
		wantSemver  string
		wantRelease bool
	}{
		{name: "dev build", version: "dev"},
		{name: "release", version: "1.4.2", wantSemver: "1.4.2", wantRelease: true},
		{name: "v prefix", version: "v1.4.2", wantSemver: "1.4.2", wantRelease: true},
		{name: "prerelease", version: "2.0.0-rc.1", wantSemver: "2.0.0-rc.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Info{Version: tt.version}
			v := info.Semver()
			if tt.wantSemver == "" {
				assert.Nil(t, v)
			} else {
				require.NotNil(t, v)
				assert.Equal(t, tt.wantSemver, v.String())
			}
			assert.Equal(t, tt.wantRelease, info.IsRelease())
		})
	}
}

func TestGet_Full(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.True(t, strings.HasPrefix(info.Full(), Version+" ("+Commit+")"))
	assert.Contains(t, info.Full(), info.Platform)
}
