// SPDX-License-Identifier: Apache-2.0

package version

import "fmt"

// Set at build time via -ldflags "-X github.com/kusari-oss/readmegen/internal/version.Version=..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// String returns the version line printed by --version
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate)
}
