// Package version reports build information baked in at link time.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Set via -ldflags "-X financetracker/internal/version.Version=..."
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Info contains version and build information
type Info struct {
	Version     string `json:"version"`
	BuildTime   string `json:"build_time"`
	GoVersion   string `json:"go_version"`
	VCSRevision string `json:"vcs_revision,omitempty"`
	VCSModified bool   `json:"vcs_modified"`
}

// Get returns the current version and build information
func Get() Info {
	info := Info{Version: Version, BuildTime: BuildTime}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.VCSRevision = s.Value
		case "vcs.modified":
			info.VCSModified = s.Value == "true"
		}
	}
	return info
}

// Revision returns the short commit hash, marked when the tree was dirty
func (i Info) Revision() string {
	rev := i.VCSRevision
	if len(rev) > 8 {
		rev = rev[:8]
	}
	if rev != "" && i.VCSModified {
		rev += "+dirty"
	}
	return rev
}

// String returns a one-line version description
func (i Info) String() string {
	parts := []string{"financetracker " + i.Version}
	if rev := i.Revision(); rev != "" {
		parts = append(parts, "commit "+rev)
	}
	if i.BuildTime != "unknown" {
		parts = append(parts, "built "+i.BuildTime)
	}
	if i.GoVersion != "" {
		parts = append(parts, i.GoVersion)
	}
	return strings.Join(parts, ", ")
}

// Warning describes a suspicious build, or returns "" for a clean release
func (i Info) Warning() string {
	switch {
	case i.VCSModified:
		return "binary built from modified source tree"
	case i.VCSRevision == "" && i.Version == "dev":
		return "development build without version control information"
	}
	return ""
}

// Header is the value of the X-App-Version response header
func (i Info) Header() string {
	if rev := i.Revision(); rev != "" {
		return fmt.Sprintf("%s (%s)", i.Version, rev)
	}
	return i.Version
}
