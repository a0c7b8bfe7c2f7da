package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"slipway/pkg/collect"
)

var initCmd = &cobra.Command{
	Use:   "init [PROJECT_PATH]",
	Short: "Detect, configure and wire up deployment end to end",
	Long: `Runs the full bootstrap pipeline: framework detection, interactive
configuration, artifact generation, then the optional follow-up steps —
DNS check, server setup, GitHub secrets and the first push — each gated by
a confirmation prompt.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) {
	projectPath := resolveProjectPath(args)
	prompter := collect.HuhPrompter{}

	det := detectOrExit(projectPath)
	printDetection(det, false)
	fmt.Println()

	cfg := collectOrExit(projectPath, det, "")

	files := generateArtifacts(cfg, projectPath)
	reportGenerated(files)
	fmt.Println()

	if cfg.Domain.Enabled {
		if confirmStep(prompter, "Check DNS for "+cfg.Domain.Name+"?") {
			checkDomain(cfg)
			fmt.Println()
		}
	}

	if confirmStep(prompter, "Set up the server over SSH now?") {
		if err := setupServer(cfg, projectPath, ""); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(successStyle.Render("Server setup complete"))
		fmt.Println()
	}

	if confirmStep(prompter, "Provision GitHub Actions secrets now?") {
		// Environmental failures (gh missing, not authenticated) skip the
		// step; the push step can still run.
		if runOptionalStep("secrets provisioning", func() error { return setupSecrets(cfg, projectPath) }) {
			fmt.Println(successStyle.Render("Secrets provisioned"))
		}
		fmt.Println()
	}

	if confirmStep(prompter, "Commit, push and watch the first deploy?") {
		if err := pushAndVerify(cfg, projectPath, "Add deployment configuration"); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(dimStyle.Render("Run 'slipway push-and-verify' when you are ready to deploy."))
}

// confirmStep gates an optional pipeline step; a prompt error counts as a
// decline so the pipeline keeps moving.
func confirmStep(prompter collect.Prompter, title string) bool {
	ok, err := prompter.Confirm(title, true)
	if err != nil {
		return false
	}
	return ok
}

// runOptionalStep runs an environment-dependent step, downgrading failure to
// a warning so later pipeline steps still run.
func runOptionalStep(name string, fn func() error) bool {
	if err := fn(); err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Skipping %s: %v", name, err)))
		return false
	}
	return true
}
