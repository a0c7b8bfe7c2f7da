package config

import (
	"fmt"
	"regexp"
)

// Archetype identifies one of the recognized project/framework kinds.
type Archetype string

const (
	ArchetypeNone     Archetype = ""
	ArchetypeFlask    Archetype = "flask"
	ArchetypeDjango   Archetype = "django"
	ArchetypeFastAPI  Archetype = "fastapi"
	ArchetypeNestJS   Archetype = "nestjs"
	ArchetypeNextJS   Archetype = "nextjs"
	ArchetypeNuxtJS   Archetype = "nuxtjs"
	ArchetypeVueSPA   Archetype = "vue-spa"
	ArchetypeReactSPA Archetype = "react-spa"
)

// Archetypes lists every known archetype in selection order.
var Archetypes = []Archetype{
	ArchetypeFlask,
	ArchetypeDjango,
	ArchetypeFastAPI,
	ArchetypeNestJS,
	ArchetypeNextJS,
	ArchetypeNuxtJS,
	ArchetypeVueSPA,
	ArchetypeReactSPA,
}

// Language is the implementation language implied by an archetype.
type Language string

const (
	LanguagePython  Language = "python"
	LanguageNode    Language = "node"
	LanguageUnknown Language = "unknown"
)

// LanguageFor derives the language deterministically from an archetype.
func LanguageFor(a Archetype) Language {
	switch a {
	case ArchetypeFlask, ArchetypeDjango, ArchetypeFastAPI:
		return LanguagePython
	case ArchetypeNestJS, ArchetypeNextJS, ArchetypeNuxtJS, ArchetypeVueSPA, ArchetypeReactSPA:
		return LanguageNode
	default:
		return LanguageUnknown
	}
}

// IsKnownArchetype reports whether a is one of the recognized kinds.
func IsKnownArchetype(a Archetype) bool {
	for _, known := range Archetypes {
		if a == known {
			return true
		}
	}
	return false
}

// ProjectSettings holds the project identity section of a collected config.
type ProjectSettings struct {
	Name      string    `json:"name"`
	Archetype Archetype `json:"archetype"`
	Language  Language  `json:"language"`
	Port      int       `json:"port"`
	BuildCmd  string    `json:"build_cmd"`
	StartCmd  string    `json:"start_cmd"`
}

// ServerSettings holds the deployment target section.
type ServerSettings struct {
	Host      string `json:"host"`
	User      string `json:"user"`
	KeyPath   string `json:"key_path"`
	DeployDir string `json:"deploy_dir"`
}

// DomainSettings holds the optional domain section.
type DomainSettings struct {
	Enabled bool   `json:"enabled"`
	Name    string `json:"name,omitempty"`
	HTTPS   bool   `json:"https,omitempty"`
}

// BranchSettings holds the branch names used by the generated CI workflow.
// Staging is empty when no staging branch was configured.
type BranchSettings struct {
	Production string `json:"production"`
	Staging    string `json:"staging,omitempty"`
}

// CollectedConfig is the complete validated configuration produced by the
// collector. It is the single source of truth for the generator and is
// persisted as the per-project cache that later standalone commands reload.
type CollectedConfig struct {
	Project  ProjectSettings `json:"project"`
	Server   ServerSettings  `json:"server"`
	Domain   DomainSettings  `json:"domain"`
	Secrets  []string        `json:"secrets"`
	Branches BranchSettings  `json:"branches"`
	Registry string          `json:"registry,omitempty"`
}

var projectNameRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidateProjectName rejects names outside the [a-z0-9-]+ pattern.
func ValidateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name is required")
	}
	if !projectNameRe.MatchString(name) {
		return fmt.Errorf("project name may only contain lowercase letters, digits and hyphens")
	}
	return nil
}

// Validate checks the cross-field invariants of a collected config.
func (c *CollectedConfig) Validate() error {
	if err := ValidateProjectName(c.Project.Name); err != nil {
		return err
	}
	if c.Project.Port <= 0 {
		return fmt.Errorf("port must be a positive integer, got %d", c.Project.Port)
	}
	if c.Project.Archetype != ArchetypeNone && !IsKnownArchetype(c.Project.Archetype) {
		return fmt.Errorf("unknown archetype: %s", c.Project.Archetype)
	}
	if c.Domain.Enabled && c.Domain.Name == "" {
		return fmt.Errorf("domain name is required when domain is enabled")
	}
	if c.Branches.Production == "" {
		return fmt.Errorf("production branch is required")
	}
	return nil
}
