package versioncheck

import "runtime/debug"

// Version is set with -ldflags "-X .../internal/versioncheck.Version=v1.2.3".
var Version = ""

// Current returns the version of the running binary: the linker-provided
// Version, else the module version, else the VCS revision, else "dev".
func Current() string {
	if Version != "" {
		return Version
	}
	info, ok := debug.ReadBuildInfo()
	if ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				return setting.Value
			}
		}
	}
	return "dev"
}
