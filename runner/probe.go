package runner

import (
	"bufio"
	"os"
	"strings"
)

// DebuggerProbe reports whether the process is being observed by a debugger.
// The runner consults it once per run before arming any time limits.
type DebuggerProbe func() bool

// DefaultDebuggerProbe checks the TracerPid field of /proc/self/status. On
// platforms without procfs, or on any read error, it reports false so time
// limits stay armed.
func DefaultDebuggerProbe() bool {
	f, err := os.Open("/proc/self/status")
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "TracerPid:") {
			continue
		}
		pid := strings.TrimSpace(strings.TrimPrefix(line, "TracerPid:"))
		return pid != "" && pid != "0"
	}
	return false
}
