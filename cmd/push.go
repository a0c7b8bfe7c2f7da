package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"slipway/cmd/ui/spinner"
	"slipway/pkg/config"
	"slipway/pkg/ghcli"
	"slipway/pkg/util"
)

var pushMessage string

var pushCmd = &cobra.Command{
	Use:   "push-and-verify [PROJECT_PATH]",
	Short: "Commit, push and watch the deploy workflow",
	Long: `Commits the generated artifacts, pushes the production branch to
origin and polls the latest GitHub Actions run until it completes, fails or
the poll budget runs out.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPush,
}

func init() {
	pushCmd.Flags().StringVarP(&pushMessage, "message", "m", "Add deployment configuration", "commit message")
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) {
	projectPath := resolveProjectPath(args)
	cfg := loadCacheOrExit(projectPath)

	if err := pushAndVerify(cfg, projectPath, pushMessage); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func pushAndVerify(cfg *config.CollectedConfig, projectPath, message string) error {
	if !util.IsGitRepository(projectPath) {
		return fmt.Errorf("%s is not a git repository", projectPath)
	}
	if repo := util.ParseGitHubRepo(util.GetGitRemoteURL(projectPath)); repo == "" {
		return fmt.Errorf("origin remote is not a GitHub repository")
	}

	branch := cfg.Branches.Production
	fmt.Println(infoStyle.Render(fmt.Sprintf("Pushing %s to origin", branch)))
	if err := util.CommitAndPush(projectPath, message, branch); err != nil {
		return err
	}

	if err := ghcli.EnsureInstalled(context.Background()); err != nil {
		fmt.Println(warnStyle.Render("Pushed, but cannot watch the workflow run: " + err.Error()))
		return nil
	}

	outcome := watchRun(projectPath, branch)
	switch outcome {
	case ghcli.OutcomeSuccess:
		fmt.Println(successStyle.Render("Deploy workflow succeeded"))
		return nil
	case ghcli.OutcomeFailure:
		return fmt.Errorf("deploy workflow failed; inspect it with 'gh run view'")
	case ghcli.OutcomeTimeout:
		fmt.Println(warnStyle.Render("Deploy workflow still running; check later with 'gh run watch'"))
		return nil
	default:
		fmt.Println(warnStyle.Render("Could not query workflow runs; verify the push on GitHub"))
		return nil
	}
}

func watchRun(projectPath, branch string) ghcli.WatchOutcome {
	var outcome ghcli.WatchOutcome
	_ = spinner.Run("Waiting for deploy workflow", func(update func(string)) error {
		outcome = ghcli.WatchLatestRun(
			context.Background(),
			projectPath,
			branch,
			config.DefaultRunPollInterval,
			config.DefaultRunPollLimit,
			func(attempt int, status string) {
				update(fmt.Sprintf("Deploy workflow: %s (poll %d/%d)", status, attempt, config.DefaultRunPollLimit))
			},
		)
		return nil
	})
	return outcome
}
