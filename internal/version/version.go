package version

import (
	"encoding/json"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zabuzafr/lparsync/internal/model"
)

// Values are set through ldflags at build time.
var (
	GitCommit  string
	GitBranch  string
	AppVersion string
	GoVersion  = runtime.Version()
)

type Version struct {
	GitCommit  string `json:"git_commit"`
	GitBranch  string `json:"git_branch"`
	AppVersion string `json:"app_version"`
	GoVersion  string `json:"go_version"`
}

func Current() *Version {
	return &Version{
		GitCommit:  GitCommit,
		GitBranch:  GitBranch,
		AppVersion: AppVersion,
		GoVersion:  GoVersion,
	}
}

func (v *Version) AsMap() (map[string]interface{}, error) {
	fields := map[string]interface{}{}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	return fields, nil
}

// ExportBuildInfoMetric exposes the build information as a constant metric.
func ExportBuildInfoMetric() {
	buildInfo := promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: model.AppName + "_build_info",
		Help: "A metric with a constant '1' value, labeled by build information.",
	}, []string{"git_commit", "git_branch", "app_version", "go_version"})

	buildInfo.WithLabelValues(GitCommit, GitBranch, AppVersion, GoVersion).Set(1)
}
