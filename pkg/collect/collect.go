// Package collect implements the interactive configuration workflow: a
// linear pass over the project, server, domain, secrets and branches
// sections, followed by a review loop that can re-enter the project, server
// and domain sections before confirming.
//
// A new server profile is persisted to the global store the moment it is
// entered, before the overall config is confirmed; cancelling at review
// still leaves the profile saved. A profile is reusable connection data, not
// deployment intent, so a cancelled run doesn't discard the operator's
// typing.
package collect

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"slipway/pkg/config"
	"slipway/pkg/detector"
	"slipway/pkg/state"
)

// ErrCancelled is returned when the operator cancels at review.
var ErrCancelled = errors.New("configuration cancelled")

// Secret-looking env keys are pre-checked in the secrets multi-select.
var secretKeyRe = regexp.MustCompile(`(?i)secret|password|key|token|api`)

const newProfileChoice = "__new__"

// Collector drives the question/answer workflow.
type Collector struct {
	prompter Prompter
	store    state.Store
}

func New(prompter Prompter, store state.Store) *Collector {
	return &Collector{prompter: prompter, store: store}
}

// Run executes the full collection state machine and returns a validated
// config, or ErrCancelled if the operator backs out at review.
func (c *Collector) Run(det detector.Detection, defaultName string) (*config.CollectedConfig, error) {
	project, err := c.collectProject(det, defaultName)
	if err != nil {
		return nil, err
	}

	server, err := c.collectServer(project.Name)
	if err != nil {
		return nil, err
	}

	domain, err := c.collectDomain()
	if err != nil {
		return nil, err
	}

	secrets, err := c.collectSecrets(det.EnvKeys)
	if err != nil {
		return nil, err
	}

	branches, err := c.collectBranches()
	if err != nil {
		return nil, err
	}

	registry, err := c.prompter.Input("Container registry", "ghcr.io", "ghcr.io", nil)
	if err != nil {
		return nil, err
	}

	cfg := &config.CollectedConfig{
		Project:  project,
		Server:   server,
		Domain:   domain,
		Secrets:  secrets,
		Branches: branches,
		Registry: registry,
	}

	for {
		action, err := c.review(cfg)
		if err != nil {
			return nil, err
		}

		switch action {
		case actionConfirm:
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			return cfg, nil
		case actionEditProject:
			if cfg.Project, err = c.collectProject(det, cfg.Project.Name); err != nil {
				return nil, err
			}
		case actionEditServer:
			if cfg.Server, err = c.collectServer(cfg.Project.Name); err != nil {
				return nil, err
			}
		case actionEditDomain:
			if cfg.Domain, err = c.collectDomain(); err != nil {
				return nil, err
			}
		case actionCancel:
			return nil, ErrCancelled
		}
	}
}

func (c *Collector) collectProject(det detector.Detection, defaultName string) (config.ProjectSettings, error) {
	var p config.ProjectSettings

	name, err := c.prompter.Input("Project name", "my-app", defaultName, config.ValidateProjectName)
	if err != nil {
		return p, err
	}

	archetypeOptions := make([]Option, 0, len(config.Archetypes))
	for _, a := range config.Archetypes {
		archetypeOptions = append(archetypeOptions, Option{Label: string(a), Value: string(a)})
	}
	defaultArchetype := det.Archetype
	if !config.IsKnownArchetype(defaultArchetype) {
		defaultArchetype = config.Archetypes[0]
	}
	archetypeStr, err := c.prompter.Select("Project type", archetypeOptions, string(defaultArchetype))
	if err != nil {
		return p, err
	}
	archetype := config.Archetype(archetypeStr)

	defaults, _ := detector.DefaultsFor(archetype)
	port, buildCmd, startCmd := defaults.Port, defaults.BuildCmd, defaults.StartCmd
	if archetype == det.Archetype {
		// Detection already refined these (port override, factory pattern).
		port, buildCmd, startCmd = det.Port, det.BuildCmd, det.StartCmd
	}

	portStr, err := c.prompter.Input("Application port", strconv.Itoa(port), strconv.Itoa(port), validatePort)
	if err != nil {
		return p, err
	}
	port, _ = strconv.Atoi(portStr)

	if buildCmd, err = c.prompter.Input("Build command", buildCmd, buildCmd, nil); err != nil {
		return p, err
	}
	if startCmd, err = c.prompter.Input("Start command", startCmd, startCmd, validateRequired); err != nil {
		return p, err
	}

	return config.ProjectSettings{
		Name:      name,
		Archetype: archetype,
		Language:  config.LanguageFor(archetype),
		Port:      port,
		BuildCmd:  buildCmd,
		StartCmd:  startCmd,
	}, nil
}

func (c *Collector) collectServer(projectName string) (config.ServerSettings, error) {
	var s config.ServerSettings

	global, err := c.store.Load()
	if err != nil {
		return s, fmt.Errorf("failed to load global config: %w", err)
	}

	if names := global.ProfileNames(); len(names) > 0 {
		options := make([]Option, 0, len(names)+1)
		for _, name := range names {
			profile := global.Profiles[name]
			options = append(options, Option{
				Label: fmt.Sprintf("%s (%s@%s)", name, profile.User, profile.Host),
				Value: name,
			})
		}
		options = append(options, Option{Label: "Add a new server", Value: newProfileChoice})

		choice, err := c.prompter.Select("Deployment server", options, names[0])
		if err != nil {
			return s, err
		}

		if choice != newProfileChoice {
			profile := global.Profiles[choice]
			deployDir, err := c.prompter.Input("Remote deploy directory", profile.DeployDir, profile.DeployDir, validateRequired)
			if err != nil {
				return s, err
			}
			return config.ServerSettings{
				Host:      profile.Host,
				User:      profile.User,
				KeyPath:   profile.KeyPath,
				DeployDir: deployDir,
			}, nil
		}
	}

	return c.collectNewServer(global, projectName)
}

func (c *Collector) collectNewServer(global *state.GlobalConfig, projectName string) (config.ServerSettings, error) {
	var s config.ServerSettings
	var err error

	if s.Host, err = c.prompter.Input("Server host", "203.0.113.10", "", validateRequired); err != nil {
		return s, err
	}
	if s.User, err = c.prompter.Input("SSH user", "root", "root", validateRequired); err != nil {
		return s, err
	}
	if s.KeyPath, err = c.prompter.Input("SSH private key path", "~/.ssh/id_rsa", "~/.ssh/id_rsa", validateRequired); err != nil {
		return s, err
	}
	defaultDeployDir := filepath.Join(config.DefaultDeployDir, projectName)
	if s.DeployDir, err = c.prompter.Input("Remote deploy directory", defaultDeployDir, defaultDeployDir, validateRequired); err != nil {
		return s, err
	}

	label, err := c.prompter.Input("Save this server as", "production", "", validateRequired)
	if err != nil {
		return s, err
	}

	// Saved immediately; reusing a label overwrites the prior profile.
	global.SetProfile(label, state.ServerProfile{
		Host:      s.Host,
		User:      s.User,
		KeyPath:   s.KeyPath,
		DeployDir: s.DeployDir,
	})
	if err := c.store.Save(global); err != nil {
		return s, fmt.Errorf("failed to save server profile: %w", err)
	}

	return s, nil
}

func (c *Collector) collectDomain() (config.DomainSettings, error) {
	enabled, err := c.prompter.Confirm("Configure a custom domain?", false)
	if err != nil {
		return config.DomainSettings{}, err
	}
	if !enabled {
		return config.DomainSettings{}, nil
	}

	name, err := c.prompter.Input("Domain name", "app.example.com", "", validateRequired)
	if err != nil {
		return config.DomainSettings{}, err
	}
	https, err := c.prompter.Confirm("Enable HTTPS?", true)
	if err != nil {
		return config.DomainSettings{}, err
	}

	return config.DomainSettings{Enabled: true, Name: name, HTTPS: https}, nil
}

func (c *Collector) collectSecrets(envKeys []string) ([]string, error) {
	if len(envKeys) == 0 {
		return nil, nil
	}

	options := make([]Option, 0, len(envKeys))
	preselected := make(map[string]bool, len(envKeys))
	for _, key := range envKeys {
		options = append(options, Option{Label: key, Value: key})
		if secretKeyRe.MatchString(key) {
			preselected[key] = true
		}
	}

	return c.prompter.MultiSelect("Select secrets to provision", options, preselected)
}

func (c *Collector) collectBranches() (config.BranchSettings, error) {
	var b config.BranchSettings
	var err error

	if b.Production, err = c.prompter.Input("Production branch", config.DefaultProductionBranch, config.DefaultProductionBranch, validateRequired); err != nil {
		return b, err
	}

	wantStaging, err := c.prompter.Confirm("Configure a staging branch?", false)
	if err != nil {
		return b, err
	}
	if wantStaging {
		if b.Staging, err = c.prompter.Input("Staging branch", config.DefaultStagingBranch, config.DefaultStagingBranch, validateRequired); err != nil {
			return b, err
		}
	}

	return b, nil
}

func validateRequired(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("this field is required")
	}
	return nil
}

func validatePort(value string) error {
	port, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}
