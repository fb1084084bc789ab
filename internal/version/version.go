/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package version reports the build version of the service.
package version

import (
	"debug/buildinfo"
	"regexp"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const moduleName = "github.com/acronis/go-hrsearch"

const defaultVersion = "v0.0.0"

// Set via -ldflags "-X github.com/acronis/go-hrsearch/internal/version.Version=...".
var (
	Version   = ""
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

var moduleVersion string
var moduleVersionOnce sync.Once

// Get returns the build information. The version set at link time wins over the module version.
func Get() Info {
	v := Version
	if v == "" {
		moduleVersionOnce.Do(initModuleVersion)
		v = moduleVersion
	}
	return Info{Version: v, Commit: Commit, BuildDate: BuildDate, GoVersion: runtime.Version()}
}

func initModuleVersion() {
	if bi, ok := debug.ReadBuildInfo(); ok {
		moduleVersion = extractModuleVersion(bi, moduleName)
	}
	if moduleVersion == "" || moduleVersion == "(devel)" {
		moduleVersion = defaultVersion
	}
}

// extractModuleVersion finds the version of the module in the build info.
// The module is either the main one or a dependency, with an optional "/vN" major version suffix.
func extractModuleVersion(bi *buildinfo.BuildInfo, modName string) string {
	if bi == nil {
		return ""
	}
	re, err := regexp.Compile(`^` + regexp.QuoteMeta(modName) + `(/v[0-9]+)?$`)
	if err != nil {
		return ""
	}
	if re.MatchString(bi.Main.Path) {
		return bi.Main.Version
	}
	for _, dep := range bi.Deps {
		if re.MatchString(dep.Path) {
			return dep.Version
		}
	}
	return ""
}

// NewBuildInfoCollector returns a gauge that is always 1 and carries the build information in labels.
func NewBuildInfoCollector(namespace string) prometheus.Collector {
	info := Get()
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "build_info",
		Help:      "Build information of the running binary.",
		ConstLabels: prometheus.Labels{
			"version":    info.Version,
			"commit":     info.Commit,
			"go_version": info.GoVersion,
		},
	})
	g.Set(1)
	return g
}
