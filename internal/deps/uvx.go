package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ResolveUVX returns the uvx launcher to execute. PATH wins; otherwise the
// per-user install location used by the uv installer (~/.local/bin or
// ~/.cargo/bin) is tried so a fresh install works before the shell is reloaded.
func ResolveUVX() string {
	name := executableName("uvx")
	if resolved, err := exec.LookPath(name); err == nil {
		return resolved
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return name
	}
	for _, dir := range []string{filepath.Join(home, ".local", "bin"), filepath.Join(home, ".cargo", "bin")} {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			return candidate
		}
	}
	return name
}

func executableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
