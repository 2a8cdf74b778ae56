package exec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// ErrNoViewer is returned when the platform has no known file opener.
var ErrNoViewer = errors.New("no viewer available on this platform")

// OpenViewer opens path in the platform's default viewer with a timeout.
// The opener returns as soon as the viewer is launched, so the timeout
// only bounds the launch itself.
func OpenViewer(ctx context.Context, path string, timeout time.Duration) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve artifact path: %w", err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("artifact not found: %s", absPath)
	}

	name, args, err := viewerCommand(runtime.GOOS, absPath)
	if err != nil {
		return err
	}
	if err := validateInstalled(name); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("viewer timed out after %v", timeout)
	}
	if err != nil {
		return fmt.Errorf("viewer %s failed: %w: %s", name, err, output)
	}
	return nil
}

// viewerCommand returns the opener invocation for goos.
func viewerCommand(goos, path string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{path}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{path}, nil
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrNoViewer, goos)
	}
}

// validateInstalled checks if the opener is in PATH
func validateInstalled(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%s is not installed or not in PATH: %w", name, err)
	}
	return nil
}
