package executor

import (
	"context"
	"os/exec"
	"strings"

	"github.com/doeshing/shai-voice/internal/domain"
	"github.com/doeshing/shai-voice/internal/ports"
)

// PathLocator resolves programs through PATH.
type PathLocator struct{}

// LookPath implements ports.DependencyLocator.
func (PathLocator) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

var _ ports.DependencyLocator = PathLocator{}

// ProbeVersion runs "<path> --version" with a short timeout and returns the
// first line of output.
func ProbeVersion(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, domain.DefaultCommandTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line), nil
}
