// Package ghcli wraps the GitHub CLI for secret provisioning and workflow
// run polling. The binary is looked up at call time; installation is
// attempted automatically where the platform has a known package manager.
package ghcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// IsInstalled checks if gh is available in PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("gh")
	return err == nil
}

// InstallInstructions returns platform-specific installation instructions.
func InstallInstructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install the GitHub CLI:\n  brew install gh"
	case "linux":
		return "Install the GitHub CLI:\n  sudo apt-get install -y gh\nor see https://github.com/cli/cli#installation"
	case "windows":
		return "Install the GitHub CLI:\n  winget install --id GitHub.cli"
	default:
		return "Install the GitHub CLI: https://github.com/cli/cli#installation"
	}
}

// installCommand returns the automatic install invocation for the current
// platform, or nil when only manual installation is supported.
func installCommand(ctx context.Context) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "brew", "install", "gh")
	case "linux":
		return exec.CommandContext(ctx, "sudo", "apt-get", "install", "-y", "gh")
	default:
		return nil
	}
}

// EnsureInstalled verifies gh is present, attempting a platform install when
// it is not. Failure returns the manual instructions.
func EnsureInstalled(ctx context.Context) error {
	if IsInstalled() {
		return nil
	}

	if cmd := installCommand(ctx); cmd != nil {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err == nil && IsInstalled() {
			return nil
		}
	}

	return fmt.Errorf("GitHub CLI not found\n\n%s", InstallInstructions())
}

// IsAuthenticated reports whether gh has stored credentials.
func IsAuthenticated(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "gh", "auth", "status")
	return cmd.Run() == nil
}

// Login runs the interactive gh login flow on the operator's terminal.
func Login(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "gh", "auth", "login")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("gh auth login failed: %w", err)
	}
	return nil
}

// EnsureAuthenticated checks credentials, launching the login flow if
// missing.
func EnsureAuthenticated(ctx context.Context) error {
	if IsAuthenticated(ctx) {
		return nil
	}
	return Login(ctx)
}

// SetSecret uploads one repository secret. dir selects the repository via
// its git remote.
func SetSecret(ctx context.Context, dir, name, value string) error {
	cmd := exec.CommandContext(ctx, "gh", "secret", "set", name, "--body", value)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("gh secret set %s failed: %w\n%s", name, err, stderr.String())
	}
	return nil
}

// RunStatus is the polled state of the latest workflow run on a branch.
type RunStatus struct {
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
}

// Terminal reports whether the run has finished.
func (r *RunStatus) Terminal() bool {
	return r.Status == "completed"
}

// Succeeded reports whether a terminal run passed.
func (r *RunStatus) Succeeded() bool {
	return r.Terminal() && r.Conclusion == "success"
}

// LatestRun fetches the most recent workflow run for a branch. A repository
// with no runs yet returns nil.
func LatestRun(ctx context.Context, dir, branch string) (*RunStatus, error) {
	cmd := exec.CommandContext(ctx, "gh", "run", "list",
		"--branch", branch,
		"--limit", "1",
		"--json", "status,conclusion")
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("gh run list failed: %w\n%s", err, stderr.String())
	}

	return ParseRunList(stdout.Bytes())
}

// ParseRunList decodes the gh run list JSON output.
func ParseRunList(data []byte) (*RunStatus, error) {
	var runs []RunStatus
	if err := json.Unmarshal(bytes.TrimSpace(data), &runs); err != nil {
		return nil, fmt.Errorf("failed to parse run list: %w", err)
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// WatchOutcome is the terminal report of a poll loop.
type WatchOutcome string

const (
	OutcomeSuccess     WatchOutcome = "success"
	OutcomeFailure     WatchOutcome = "failure"
	OutcomeTimeout     WatchOutcome = "timeout"
	OutcomeUnavailable WatchOutcome = "unavailable"
)

// WatchLatestRun polls the latest run on a branch at a fixed interval up to
// maxPolls iterations. There is no retry or backoff; a lookup error reports
// the pipeline as unavailable and a full loop without completion reports a
// timeout.
func WatchLatestRun(ctx context.Context, dir, branch string, interval time.Duration, maxPolls int, progress func(attempt int, status string)) WatchOutcome {
	fetch := func() (*RunStatus, error) {
		return LatestRun(ctx, dir, branch)
	}
	return watchRuns(ctx, interval, maxPolls, fetch, progress)
}

func watchRuns(ctx context.Context, interval time.Duration, maxPolls int, fetch func() (*RunStatus, error), progress func(attempt int, status string)) WatchOutcome {
	for attempt := 1; attempt <= maxPolls; attempt++ {
		run, err := fetch()
		if err != nil {
			return OutcomeUnavailable
		}

		status := "waiting for run"
		if run != nil {
			status = run.Status
		}
		if progress != nil {
			progress(attempt, status)
		}

		if run != nil && run.Terminal() {
			if run.Succeeded() {
				return OutcomeSuccess
			}
			return OutcomeFailure
		}

		// No point sleeping after the final poll.
		if attempt == maxPolls {
			break
		}

		select {
		case <-ctx.Done():
			return OutcomeTimeout
		case <-time.After(interval):
		}
	}
	return OutcomeTimeout
}

// Version returns the installed gh version line.
func Version() (string, error) {
	if !IsInstalled() {
		return "", fmt.Errorf("gh not installed")
	}

	out, err := exec.Command("gh", "--version").Output()
	if err != nil {
		return "", fmt.Errorf("failed to get gh version: %w", err)
	}

	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}
