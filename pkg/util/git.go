package util

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// IsGitRepository checks whether the directory is inside a git work tree.
func IsGitRepository(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return true
	}
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	return cmd.Run() == nil
}

// GetGitRemoteURL returns the origin remote URL, or empty when unset.
func GetGitRemoteURL(dir string) string {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// ParseGitHubRepo extracts "owner/repo" from an SSH or HTTPS GitHub remote
// URL. Non-GitHub remotes return empty.
func ParseGitHubRepo(remoteURL string) string {
	url := strings.TrimSpace(remoteURL)
	url = strings.TrimSuffix(url, ".git")

	var path string
	switch {
	case strings.HasPrefix(url, "git@github.com:"):
		path = strings.TrimPrefix(url, "git@github.com:")
	case strings.HasPrefix(url, "https://github.com/"):
		path = strings.TrimPrefix(url, "https://github.com/")
	case strings.HasPrefix(url, "ssh://git@github.com/"):
		path = strings.TrimPrefix(url, "ssh://git@github.com/")
	default:
		return ""
	}

	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ""
	}
	return parts[0] + "/" + parts[1]
}

// CurrentBranch returns the checked-out branch name.
func CurrentBranch(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to resolve current branch: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CommitAndPush stages everything, commits with the given message and pushes
// the branch to origin. A clean tree skips the commit but still pushes.
func CommitAndPush(dir, message, branch string) error {
	if err := runGit(dir, "add", "-A"); err != nil {
		return err
	}

	if err := runGit(dir, "commit", "-m", message); err != nil {
		if !strings.Contains(err.Error(), "nothing to commit") {
			return err
		}
	}

	return runGit(dir, "push", "origin", branch)
}

func runGit(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(string(out))
		}
		return fmt.Errorf("git %s failed: %w: %s", args[0], err, detail)
	}
	return nil
}
