package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slipway/pkg/config"
)

func testConfig(archetype config.Archetype) *config.CollectedConfig {
	return &config.CollectedConfig{
		Project: config.ProjectSettings{
			Name:      "my-app",
			Archetype: archetype,
			Language:  config.LanguageFor(archetype),
			Port:      5000,
			BuildCmd:  "pip install -r requirements.txt",
			StartCmd:  "gunicorn -w 4 -b 0.0.0.0:5000 app:app",
		},
		Server: config.ServerSettings{
			Host:      "203.0.113.10",
			User:      "root",
			KeyPath:   "~/.ssh/id_rsa",
			DeployDir: "/srv/my-app",
		},
		Branches: config.BranchSettings{Production: "main"},
	}
}

func TestRender(t *testing.T) {
	rendered := Render("image: {{REGISTRY}}/{{APP_NAME}}:latest port {{APP_PORT}}", map[string]string{
		"REGISTRY": "ghcr.io",
		"APP_NAME": "my-app",
		"APP_PORT": "5000",
	})
	if rendered != "image: ghcr.io/my-app:latest port 5000" {
		t.Fatalf("unexpected render: %q", rendered)
	}
}

func TestRender_LeavesUnknownPlaceholders(t *testing.T) {
	rendered := Render("${{ secrets.SERVER_HOST }} {{APP_NAME}}", map[string]string{"APP_NAME": "my-app"})
	if rendered != "${{ secrets.SERVER_HOST }} my-app" {
		t.Fatalf("workflow expressions must survive rendering: %q", rendered)
	}
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		archetype config.Archetype
		want      Category
	}{
		{config.ArchetypeFlask, CategoryPython},
		{config.ArchetypeDjango, CategoryPython},
		{config.ArchetypeFastAPI, CategoryPython},
		{config.ArchetypeNestJS, CategoryNode},
		{config.ArchetypeNextJS, CategoryNode},
		{config.ArchetypeNuxtJS, CategoryNode},
		{config.ArchetypeVueSPA, CategorySPA},
		{config.ArchetypeReactSPA, CategorySPA},
		{config.ArchetypeNone, CategoryNode},
	}

	for _, tt := range tests {
		if got := CategoryFor(tt.archetype); got != tt.want {
			t.Fatalf("CategoryFor(%q) = %q, want %q", tt.archetype, got, tt.want)
		}
	}
}

func TestGenerate_PythonFileSet(t *testing.T) {
	dir := t.TempDir()

	files, err := Generate(testConfig(config.ArchetypeFlask), dir)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := map[string]bool{
		"Dockerfile":                   true,
		".dockerignore":                true,
		"docker-compose.yml":           true,
		".github/workflows/deploy.yml": true,
		"scripts/server-setup.sh":      true,
	}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), files)
	}
	for _, f := range files {
		if !want[f.Path] {
			t.Fatalf("unexpected generated file %s", f.Path)
		}
		if f.BackedUp {
			t.Fatalf("fresh directory should need no backups, got %+v", f)
		}
	}

	dockerfile, err := os.ReadFile(filepath.Join(dir, "Dockerfile"))
	if err != nil {
		t.Fatalf("reading Dockerfile: %v", err)
	}
	if !strings.Contains(string(dockerfile), "EXPOSE 5000") {
		t.Fatal("expected port substituted into Dockerfile")
	}
	if strings.Contains(string(dockerfile), "{{") {
		t.Fatalf("unsubstituted placeholder in Dockerfile:\n%s", dockerfile)
	}
}

func TestGenerate_SPAIncludesNginxConf(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(config.ArchetypeReactSPA)
	cfg.Project.Port = 80
	cfg.Domain = config.DomainSettings{Enabled: true, Name: "app.example.com", HTTPS: true}

	files, err := Generate(cfg, dir)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	found := false
	for _, f := range files {
		if f.Path == "nginx.conf" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected nginx.conf for SPA, got %v", files)
	}

	conf, err := os.ReadFile(filepath.Join(dir, "nginx.conf"))
	if err != nil {
		t.Fatalf("reading nginx.conf: %v", err)
	}
	if !strings.Contains(string(conf), "server_name app.example.com") {
		t.Fatal("expected domain substituted into nginx.conf")
	}
}

func TestGenerate_NonSPAOmitsNginxConf(t *testing.T) {
	dir := t.TempDir()

	files, err := Generate(testConfig(config.ArchetypeDjango), dir)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, f := range files {
		if f.Path == "nginx.conf" {
			t.Fatal("nginx.conf must only be generated for SPAs")
		}
	}
}

func TestGenerate_BacksUpExistingFiles(t *testing.T) {
	dir := t.TempDir()
	original := []byte("FROM scratch\n")
	if err := os.WriteFile(filepath.Join(dir, "Dockerfile"), original, 0o644); err != nil {
		t.Fatalf("seeding Dockerfile: %v", err)
	}

	files, err := Generate(testConfig(config.ArchetypeFlask), dir)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, f := range files {
		if f.Path == "Dockerfile" && !f.BackedUp {
			t.Fatal("expected existing Dockerfile to be reported as backed up")
		}
	}

	backup, err := os.ReadFile(filepath.Join(dir, "Dockerfile.backup"))
	if err != nil {
		t.Fatalf("reading backup: %v", err)
	}
	if string(backup) != string(original) {
		t.Fatalf("backup does not preserve original content: %q", backup)
	}
}

func TestVars_Fallbacks(t *testing.T) {
	cfg := testConfig(config.ArchetypeFlask)
	vars := Vars(cfg)

	if vars["DOMAIN"] != "_" {
		t.Fatalf("expected catch-all domain fallback, got %q", vars["DOMAIN"])
	}
	if vars["REGISTRY"] != "ghcr.io" {
		t.Fatalf("expected default registry fallback, got %q", vars["REGISTRY"])
	}
}
