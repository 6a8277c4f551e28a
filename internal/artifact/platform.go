package artifact

import (
	"fmt"
	"runtime"
)

// machineNames maps GOARCH to the uname -m spelling used in artifact names.
var machineNames = map[string]string{
	"amd64":   "x86_64",
	"386":     "i686",
	"arm64":   "aarch64",
	"arm":     "armv7",
	"loong64": "loongarch64",
	"riscv64": "riscv64",
}

// HostArch returns the architecture tag of the running machine, e.g.
// "linux-x86_64".
func HostArch() string {
	return ArchFor(runtime.GOOS, runtime.GOARCH)
}

// ArchFor returns the architecture tag for a GOOS/GOARCH pair.
func ArchFor(goos, goarch string) string {
	machine, ok := machineNames[goarch]
	if !ok {
		machine = goarch
	}
	return fmt.Sprintf("%s-%s", goos, machine)
}
