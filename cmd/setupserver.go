package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"slipway/pkg/config"
	sshpkg "slipway/pkg/ssh"
)

var setupServerKeyPath string

var setupServerCmd = &cobra.Command{
	Use:   "setup-server [PROJECT_PATH]",
	Short: "Run the generated setup script on the deployment server",
	Long: `Connects to the configured server over SSH and streams the generated
scripts/server-setup.sh through a remote shell: package updates, Docker
installation, deploy directory and firewall rules.

Requires a previous 'slipway init' or 'slipway generate' run in the project.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSetupServer,
}

func init() {
	setupServerCmd.Flags().StringVar(&setupServerKeyPath, "ssh-key", "", "SSH private key path (overrides the configured key)")
	rootCmd.AddCommand(setupServerCmd)
}

func runSetupServer(cmd *cobra.Command, args []string) {
	projectPath := resolveProjectPath(args)
	cfg := loadCacheOrExit(projectPath)

	if err := setupServer(cfg, projectPath, setupServerKeyPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(successStyle.Render("Server setup complete"))
}

func setupServer(cfg *config.CollectedConfig, projectPath, keyOverride string) error {
	scriptPath := filepath.Join(projectPath, config.SetupScript)
	script, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("missing %s (run 'slipway generate' first): %w", config.SetupScript, err)
	}

	keyPath := cfg.Server.KeyPath
	if keyOverride != "" {
		keyPath = keyOverride
	}

	executor := sshpkg.NewExecutor(cfg.Server.Host, cfg.Server.User, keyPath)
	executor.Password = passwordPrompt(cfg.Server.User, cfg.Server.Host)

	fmt.Println(infoStyle.Render(fmt.Sprintf("Connecting to %s@%s", cfg.Server.User, cfg.Server.Host)))
	if err := executor.Connect(); err != nil {
		return err
	}
	defer executor.Disconnect()

	result := executor.ExecuteScript(string(script), os.Stdout, os.Stderr)
	if result.Error != nil {
		return fmt.Errorf("setup script failed: %w", result.Error)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("setup script exited with code %d", result.ExitCode)
	}
	return nil
}
