package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"

	"slipway/pkg/config"
	"slipway/pkg/detector"
	sshpkg "slipway/pkg/ssh"
)

// resolveProjectPath validates the optional positional PROJECT_PATH argument,
// defaulting to the working directory.
func resolveProjectPath(args []string) string {
	projectPath := "."
	if len(args) > 0 {
		projectPath = args[0]
	}
	projectPath = filepath.Clean(projectPath)

	info, err := os.Stat(projectPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Cannot access path '%s': %v\n", projectPath, err)
		os.Exit(1)
	}
	if !info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: Path '%s' is not a directory\n", projectPath)
		os.Exit(1)
	}
	return projectPath
}

// loadCacheOrExit loads the project's saved configuration and exits with a
// hint when no run of init has happened yet.
func loadCacheOrExit(projectPath string) *config.CollectedConfig {
	cfg, err := config.LoadCache(projectPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// detectOrExit runs framework detection over the project directory.
func detectOrExit(projectPath string) detector.Detection {
	det, err := detector.DetectPath(projectPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Detection failed: %v\n", err)
		os.Exit(1)
	}
	return det
}

// printDetection renders a detection summary, or raw JSON when asked.
func printDetection(det detector.Detection, asJSON bool) {
	if asJSON {
		out, err := json.MarshalIndent(det, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to encode detection: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	archetype := string(det.Archetype)
	if archetype == "" {
		archetype = "unknown"
	}

	fmt.Println(infoStyle.Render("Detected project"))
	fmt.Printf("  %s %s\n", dimStyle.Render("Type:         "), archetype)
	if det.Language != "" {
		fmt.Printf("  %s %s\n", dimStyle.Render("Language:     "), det.Language)
	}
	if det.Port != 0 {
		fmt.Printf("  %s %d\n", dimStyle.Render("Port:         "), det.Port)
	}
	if det.StartCmd != "" {
		fmt.Printf("  %s %s\n", dimStyle.Render("Start command:"), det.StartCmd)
	}
	fmt.Printf("  %s %t\n", dimStyle.Render("Dockerfile:   "), det.HasDockerfile)
	fmt.Printf("  %s %t\n", dimStyle.Render("CI workflows: "), det.HasCI)
	if len(det.EnvKeys) > 0 {
		fmt.Printf("  %s %s\n", dimStyle.Render("Env keys:     "), strings.Join(det.EnvKeys, ", "))
	}
}

// passwordPrompt builds the interactive fallback used when the configured SSH
// key cannot be read.
func passwordPrompt(user, host string) sshpkg.PasswordFunc {
	return func() (string, error) {
		fmt.Printf("Password for %s@%s: ", user, host)
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(password), nil
	}
}
