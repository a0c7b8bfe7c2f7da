package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"slipway/pkg/collect"
	"slipway/pkg/config"
	"slipway/pkg/detector"
	"slipway/pkg/scaffold"
	"slipway/pkg/state"
)

var (
	generateJSON       bool
	generateConfigFile string
)

var generateCmd = &cobra.Command{
	Use:   "generate [PROJECT_PATH]",
	Short: "Detect the project and generate deployment artifacts",
	Long: `Detects the project's framework, collects deployment configuration
interactively and writes the Docker, CI and server setup artifacts.

With --config a saved configuration file is loaded instead and no questions
are asked. With --json the detection result is printed as JSON and nothing
is generated.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "print detection result as JSON and exit")
	generateCmd.Flags().StringVar(&generateConfigFile, "config", "", "load configuration from a file instead of prompting")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) {
	projectPath := resolveProjectPath(args)

	det := detectOrExit(projectPath)
	if generateJSON {
		printDetection(det, true)
		return
	}
	printDetection(det, false)
	fmt.Println()

	cfg := collectOrExit(projectPath, det, generateConfigFile)

	files := generateArtifacts(cfg, projectPath)
	reportGenerated(files)
}

// collectOrExit produces the deployment configuration, either from an
// explicit config file or by running the interactive workflow.
func collectOrExit(projectPath string, det detector.Detection, configFile string) *config.CollectedConfig {
	if configFile != "" {
		cfg, err := config.LoadFile(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}

	defaultName := filepath.Base(absPath(projectPath))
	collector := collect.New(collect.HuhPrompter{}, state.NewFileStore())

	cfg, err := collector.Run(det, defaultName)
	if err != nil {
		if errors.Is(err, collect.ErrCancelled) {
			fmt.Println(warnStyle.Render("Cancelled; nothing generated."))
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// generateArtifacts writes the artifact set, persists the per-project cache
// and records the project in the global config.
func generateArtifacts(cfg *config.CollectedConfig, projectPath string) []scaffold.File {
	files, err := scaffold.Generate(cfg, projectPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Generation failed: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.SaveCache(projectPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to save configuration: %v\n", err)
		os.Exit(1)
	}

	recordProject(cfg)
	return files
}

func reportGenerated(files []scaffold.File) {
	fmt.Println(successStyle.Render("Generated deployment artifacts"))
	for _, f := range files {
		note := ""
		if f.BackedUp {
			note = dimStyle.Render("  (existing file saved as " + f.Path + ".backup)")
		}
		fmt.Printf("  %s%s\n", f.Path, note)
	}
}

// recordProject is best-effort; a failed global write never blocks
// generation.
func recordProject(cfg *config.CollectedConfig) {
	store := state.NewFileStore()
	global, err := store.Load()
	if err != nil {
		return
	}
	global.RecordProject(cfg.Project.Name, state.ProjectRecord{
		Archetype:  cfg.Project.Archetype,
		LastDeploy: time.Now().UTC(),
	})
	_ = store.Save(global)
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
