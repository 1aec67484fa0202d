package structures

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultHostsPath returns the system-wide hosts file for the running OS.
func DefaultHostsPath() string {
	if runtime.GOOS == "windows" {
		windir := os.Getenv("SystemRoot")
		if windir == "" {
			windir = `C:\Windows`
		}
		return filepath.Join(windir, "System32", "drivers", "etc", "hosts")
	}
	return "/etc/hosts"
}
