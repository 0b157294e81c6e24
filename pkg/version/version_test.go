package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserAgent(t *testing.T) {
	defer func(v, c string) { Version, GitCommit = v, c }(Version, GitCommit)

	tests := []struct {
		name    string
		version string
		commit  string
		want    string
	}{
		{name: "local build", version: "dev", commit: "unknown", want: "pfinance/dev"},
		{name: "release build", version: "v1.2.0", commit: "abc1234", want: "pfinance/v1.2.0 (abc1234)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, GitCommit = tt.version, tt.commit
			assert.Equal(t, tt.want, UserAgent())
		})
	}
}

func TestGet(t *testing.T) {
	info := Get()

	assert.Equal(t, Service, info.Service)
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.String(), "pfinance "+Version)
}
