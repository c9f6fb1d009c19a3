// Package stacktrace trims raw goroutine stacks down to this module's frames.
package stacktrace

import "strings"

// InternalPaths returns the "internal/<pkg>/<file>.go:<line>" frames of a raw
// stack trace, in order, dropping runtime and third-party frames.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, ".go:") {
			continue
		}

		_, rest, found := strings.Cut(line, "/internal/")
		if !found {
			continue
		}

		if end := strings.IndexByte(rest, ' '); end != -1 {
			rest = rest[:end]
		}
		paths = append(paths, "internal/"+rest)
	}
	return paths
}
