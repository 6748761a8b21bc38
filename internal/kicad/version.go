package kicad

import (
	"context"
	"os/exec"
	"regexp"
	"time"
)

var versionPattern = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?(?:[-+][0-9A-Za-z.\-]+)?)`)

// DetectVersion asks binary for its version. It returns "" when the binary
// is missing or prints nothing recognizable.
func DetectVersion(ctx context.Context, binary string) string {
	path, err := exec.LookPath(binary)
	if err != nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// #nosec G204 -- binary comes from configuration
	out, err := exec.CommandContext(ctx, path, "version").Output()
	if err != nil {
		return ""
	}
	return ParseVersion(string(out))
}

// ParseVersion extracts the version token from `kicad-cli version` output.
func ParseVersion(output string) string {
	if m := versionPattern.FindStringSubmatch(output); len(m) >= 2 {
		return m[1]
	}
	return ""
}
