//go:build linux

package walker

import (
	"os"
	"syscall"
)

// deviceOf returns the device number backing info, or 0 if unavailable.
func deviceOf(info os.FileInfo) uint64 {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return uint64(st.Dev)
	}
	return 0
}

// crossesDevice reports whether info lives on a different device than
// rootDev. A zero rootDev (device unknown) never blocks traversal.
func crossesDevice(info os.FileInfo, rootDev uint64) bool {
	if rootDev == 0 {
		return false
	}
	return deviceOf(info) != rootDev
}
