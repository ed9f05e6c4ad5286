//go:build !linux

package walker

import "os"

// deviceOf is a no-op on platforms without syscall.Stat_t.Dev.
func deviceOf(info os.FileInfo) uint64 { return 0 }

// crossesDevice never blocks traversal on platforms without device info.
func crossesDevice(info os.FileInfo, rootDev uint64) bool { return false }
