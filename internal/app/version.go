package app

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Version is set at build time with -ldflags "-X github.com/agbru/mpcalc/internal/app.Version=v1.0.0".
var Version = "dev"

// versionString describes the build. For "dev" builds the module version
// recorded by the Go toolchain is used when there is one.
func versionString() string {
	v := Version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return v
}

// PrintVersion writes the version line.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "mpcalc %s %s %s/%s\n", versionString(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
