// Package scaffold renders the fixed set of deployment artifacts from
// embedded templates. Substitution is literal {{VAR}} replacement; any
// pre-existing output file is copied to a .backup sibling before being
// overwritten.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"slipway/pkg/config"
)

//go:embed templates
var templatesFS embed.FS

// Category selects which Dockerfile/ignore template set an archetype uses.
type Category string

const (
	CategoryPython Category = "python"
	CategoryNode   Category = "node"
	CategorySPA    Category = "spa"
)

var categoryByArchetype = map[config.Archetype]Category{
	config.ArchetypeFlask:    CategoryPython,
	config.ArchetypeDjango:   CategoryPython,
	config.ArchetypeFastAPI:  CategoryPython,
	config.ArchetypeNestJS:   CategoryNode,
	config.ArchetypeNextJS:   CategoryNode,
	config.ArchetypeNuxtJS:   CategoryNode,
	config.ArchetypeVueSPA:   CategorySPA,
	config.ArchetypeReactSPA: CategorySPA,
}

// CategoryFor maps an archetype to its template category. Unknown archetypes
// fall back to the node category.
func CategoryFor(a config.Archetype) Category {
	if c, ok := categoryByArchetype[a]; ok {
		return c
	}
	return CategoryNode
}

// File reports one generated artifact.
type File struct {
	Path     string `json:"path"`
	BackedUp bool   `json:"backed_up"`
}

// output binds a template to its destination, relative to the project root.
type output struct {
	template string
	path     string
	mode     os.FileMode
}

func outputsFor(category Category) []output {
	outputs := []output{
		{template: fmt.Sprintf("templates/%s/Dockerfile.tmpl", category), path: "Dockerfile", mode: config.PermConfigFile},
		{template: fmt.Sprintf("templates/%s/dockerignore.tmpl", category), path: ".dockerignore", mode: config.PermConfigFile},
		{template: "templates/shared/docker-compose.yml.tmpl", path: "docker-compose.yml", mode: config.PermConfigFile},
		{template: "templates/shared/deploy.yml.tmpl", path: ".github/workflows/deploy.yml", mode: config.PermConfigFile},
		{template: "templates/shared/server-setup.sh.tmpl", path: config.SetupScript, mode: config.PermScript},
	}
	if category == CategorySPA {
		outputs = append(outputs, output{template: "templates/spa/nginx.conf.tmpl", path: "nginx.conf", mode: config.PermConfigFile})
	}
	return outputs
}

// Vars builds the fixed substitution set for a collected config.
func Vars(cfg *config.CollectedConfig) map[string]string {
	domain := cfg.Domain.Name
	if domain == "" {
		domain = "_"
	}
	registry := cfg.Registry
	if registry == "" {
		registry = "ghcr.io"
	}
	return map[string]string{
		"APP_NAME":          cfg.Project.Name,
		"APP_PORT":          strconv.Itoa(cfg.Project.Port),
		"BUILD_COMMAND":     cfg.Project.BuildCmd,
		"START_COMMAND":     cfg.Project.StartCmd,
		"DEPLOY_DIR":        cfg.Server.DeployDir,
		"DOMAIN":            domain,
		"SERVER_HOST":       cfg.Server.Host,
		"SSH_USER":          cfg.Server.User,
		"PRODUCTION_BRANCH": cfg.Branches.Production,
		"STAGING_BRANCH":    cfg.Branches.Staging,
		"REGISTRY":          registry,
	}
}

// Render substitutes every {{KEY}} placeholder in a template.
func Render(template string, vars map[string]string) string {
	rendered := template
	for key, value := range vars {
		rendered = strings.ReplaceAll(rendered, "{{"+key+"}}", value)
	}
	return rendered
}

// Generate renders every artifact for the config into outDir and reports the
// written files. Pre-existing files are backed up unconditionally.
func Generate(cfg *config.CollectedConfig, outDir string) ([]File, error) {
	vars := Vars(cfg)
	category := CategoryFor(cfg.Project.Archetype)

	var written []File
	for _, out := range outputsFor(category) {
		raw, err := fs.ReadFile(templatesFS, out.template)
		if err != nil {
			return nil, fmt.Errorf("missing template %s: %w", out.template, err)
		}

		destPath := filepath.Join(outDir, out.path)
		if err := os.MkdirAll(filepath.Dir(destPath), config.PermDirectory); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(destPath), err)
		}

		backedUp, err := backupExisting(destPath)
		if err != nil {
			return nil, err
		}

		rendered := Render(string(raw), vars)
		if err := os.WriteFile(destPath, []byte(rendered), out.mode); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", out.path, err)
		}

		written = append(written, File{Path: out.path, BackedUp: backedUp})
	}

	return written, nil
}

// backupExisting copies path to path.backup when it exists. The backup is
// itself overwritten on repeated runs.
func backupExisting(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read existing %s: %w", path, err)
	}

	if err := os.WriteFile(path+".backup", data, config.PermConfigFile); err != nil {
		return false, fmt.Errorf("failed to back up %s: %w", path, err)
	}
	return true, nil
}
