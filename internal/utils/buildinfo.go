package utils

import "runtime/debug"

const developmentVersion = "dev"

// ApplicationVersion reports the module version recorded in the build info,
// or "dev" for source builds.
func ApplicationVersion() string {
	buildInfo, available := debug.ReadBuildInfo()
	if available && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}
	return developmentVersion
}
