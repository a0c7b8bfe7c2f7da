package collect

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"slipway/pkg/config"
)

// reviewAction is the tagged result of one pass through the review state.
type reviewAction string

const (
	actionConfirm     reviewAction = "confirm"
	actionEditProject reviewAction = "edit-project"
	actionEditServer  reviewAction = "edit-server"
	actionEditDomain  reviewAction = "edit-domain"
	actionCancel      reviewAction = "cancel"
)

// There is deliberately no edit path for secrets or branches; once past
// their collection step, the only way back is cancelling the whole run.
var reviewOptions = []Option{
	{Label: "Confirm and continue", Value: string(actionConfirm)},
	{Label: "Edit project settings", Value: string(actionEditProject)},
	{Label: "Edit server settings", Value: string(actionEditServer)},
	{Label: "Edit domain settings", Value: string(actionEditDomain)},
	{Label: "Cancel", Value: string(actionCancel)},
}

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	fieldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

func (c *Collector) review(cfg *config.CollectedConfig) (reviewAction, error) {
	fmt.Println(RenderSummary(cfg))

	choice, err := c.prompter.Select("Review configuration", reviewOptions, string(actionConfirm))
	if err != nil {
		return actionCancel, err
	}
	return reviewAction(choice), nil
}

// RenderSummary renders the assembled configuration as a human-readable
// review block.
func RenderSummary(cfg *config.CollectedConfig) string {
	var b strings.Builder

	section := func(title string) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
	}
	field := func(name, value string) {
		b.WriteString(fieldStyle.Render(fmt.Sprintf("  %-18s", name)))
		b.WriteString(value)
		b.WriteString("\n")
	}

	section("Project")
	field("Name", cfg.Project.Name)
	field("Type", string(cfg.Project.Archetype))
	field("Language", string(cfg.Project.Language))
	field("Port", fmt.Sprintf("%d", cfg.Project.Port))
	field("Build command", orNone(cfg.Project.BuildCmd))
	field("Start command", cfg.Project.StartCmd)

	section("Server")
	field("Host", cfg.Server.Host)
	field("User", cfg.Server.User)
	field("SSH key", cfg.Server.KeyPath)
	field("Deploy directory", cfg.Server.DeployDir)

	section("Domain")
	if cfg.Domain.Enabled {
		field("Name", cfg.Domain.Name)
		field("HTTPS", fmt.Sprintf("%t", cfg.Domain.HTTPS))
	} else {
		field("Enabled", "no")
	}

	section("Secrets")
	if len(cfg.Secrets) == 0 {
		field("Selected", "none")
	} else {
		field("Selected", strings.Join(cfg.Secrets, ", "))
	}

	section("Branches")
	field("Production", cfg.Branches.Production)
	field("Staging", orNone(cfg.Branches.Staging))

	section("Registry")
	field("Registry", orNone(cfg.Registry))

	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
