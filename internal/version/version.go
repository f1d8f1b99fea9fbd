package version

import "runtime/debug"

// Version is set at build time via -ldflags.
var Version = "unknown"

// Binaries installed with `go install` lack -ldflags, so fall back to the
// module version embedded in the build info.
func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		Version = v
	}
}
