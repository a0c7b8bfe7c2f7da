package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"slipway/pkg/config"
	"slipway/pkg/ghcli"
	sshpkg "slipway/pkg/ssh"
	"slipway/pkg/util"
)

var setupSecretsCmd = &cobra.Command{
	Use:   "setup-secrets [PROJECT_PATH]",
	Short: "Provision GitHub Actions secrets for the deploy workflow",
	Long: `Uploads the repository secrets the generated workflow needs: server
host, SSH user, the private key contents and the deploy path. Any
application secrets selected during configuration are uploaded with their
values from the project's env file.

Requires the GitHub CLI; installation and login are attempted when missing.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSetupSecrets,
}

func init() {
	rootCmd.AddCommand(setupSecretsCmd)
}

func runSetupSecrets(cmd *cobra.Command, args []string) {
	projectPath := resolveProjectPath(args)
	cfg := loadCacheOrExit(projectPath)

	if err := setupSecrets(cfg, projectPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(successStyle.Render("Secrets provisioned"))
}

func setupSecrets(cfg *config.CollectedConfig, projectPath string) error {
	ctx := context.Background()

	if err := ghcli.EnsureInstalled(ctx); err != nil {
		return err
	}
	if version, err := ghcli.Version(); err == nil {
		fmt.Println(dimStyle.Render("  using " + version))
	}
	if err := ghcli.EnsureAuthenticated(ctx); err != nil {
		return err
	}

	if !util.IsGitRepository(projectPath) {
		return fmt.Errorf("%s is not a git repository", projectPath)
	}
	if repo := util.ParseGitHubRepo(util.GetGitRemoteURL(projectPath)); repo == "" {
		return fmt.Errorf("origin remote is not a GitHub repository")
	}

	keyBytes, err := os.ReadFile(sshpkg.ExpandPath(cfg.Server.KeyPath))
	if err != nil {
		return fmt.Errorf("failed to read SSH key %s: %w", cfg.Server.KeyPath, err)
	}

	fixed := []struct{ name, value string }{
		{"SERVER_HOST", cfg.Server.Host},
		{"SERVER_USER", cfg.Server.User},
		{"SERVER_SSH_KEY", string(keyBytes)},
		{"DEPLOY_PATH", cfg.Server.DeployDir},
	}
	for _, secret := range fixed {
		if err := ghcli.SetSecret(ctx, projectPath, secret.name, secret.value); err != nil {
			return err
		}
		fmt.Printf("  %s %s\n", successStyle.Render("set"), secret.name)
	}

	return uploadSelectedSecrets(ctx, cfg, projectPath)
}

// uploadSelectedSecrets pushes the env keys chosen during configuration,
// sourcing values from the project's env file. A key with no local value is
// skipped with a warning rather than uploaded empty.
func uploadSelectedSecrets(ctx context.Context, cfg *config.CollectedConfig, projectPath string) error {
	if len(cfg.Secrets) == 0 {
		return nil
	}

	values := loadEnvValues(projectPath)
	for _, name := range cfg.Secrets {
		value, ok := values[name]
		if !ok || value == "" {
			fmt.Println(warnStyle.Render(fmt.Sprintf("  skipped %s (no value in env file)", name)))
			continue
		}
		if err := ghcli.SetSecret(ctx, projectPath, name, value); err != nil {
			return err
		}
		fmt.Printf("  %s %s\n", successStyle.Render("set"), name)
	}
	return nil
}

// loadEnvValues reads the first env file present, in the same priority order
// detection uses.
func loadEnvValues(projectPath string) map[string]string {
	for _, candidate := range []string{".env", ".env.example", ".env.production"} {
		data, err := os.ReadFile(filepath.Join(projectPath, candidate))
		if err != nil {
			continue
		}
		return util.ParseEnvFile(string(data))
	}
	return nil
}
