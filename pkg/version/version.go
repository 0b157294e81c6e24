package version

import (
	"fmt"
	"runtime"
)

// Service is the name the engine reports to quote providers and in /version
const Service = "pfinance"

// Set at build time, e.g.
//
//	go build -ldflags "-X github.com/pfinance/pfinance_service/pkg/version.Version=v1.2.0 \
//	  -X github.com/pfinance/pfinance_service/pkg/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

type Info struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func Get() Info {
	return Info{
		Service:   Service,
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// UserAgent identifies outbound quote requests, e.g. "pfinance/v1.2.0 (abc1234)"
func UserAgent() string {
	if GitCommit == "" || GitCommit == "unknown" {
		return Service + "/" + Version
	}
	return fmt.Sprintf("%s/%s (%s)", Service, Version, GitCommit)
}

func (i Info) String() string {
	return fmt.Sprintf("%s %s, commit %s, built %s, %s %s",
		i.Service, i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
