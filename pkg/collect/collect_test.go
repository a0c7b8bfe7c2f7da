package collect

import (
	"errors"
	"testing"

	"slipway/pkg/config"
	"slipway/pkg/detector"
	"slipway/pkg/state"
)

// fakePrompter replays scripted answers. An empty scripted string accepts the
// prompt's default value.
type fakePrompter struct {
	t        *testing.T
	inputs   []string
	selects  []string
	multi    []string
	confirms []bool

	preselected map[string]bool
}

func (p *fakePrompter) Input(title, placeholder, defaultValue string, validate func(string) error) (string, error) {
	p.t.Helper()
	if len(p.inputs) == 0 {
		p.t.Fatalf("unexpected input prompt: %s", title)
	}
	value := p.inputs[0]
	p.inputs = p.inputs[1:]
	if value == "" {
		value = defaultValue
	}
	if validate != nil {
		if err := validate(value); err != nil {
			return "", err
		}
	}
	return value, nil
}

func (p *fakePrompter) Select(title string, options []Option, defaultValue string) (string, error) {
	p.t.Helper()
	if len(p.selects) == 0 {
		p.t.Fatalf("unexpected select prompt: %s", title)
	}
	value := p.selects[0]
	p.selects = p.selects[1:]
	if value == "" {
		value = defaultValue
	}
	return value, nil
}

func (p *fakePrompter) MultiSelect(title string, options []Option, preselected map[string]bool) ([]string, error) {
	p.t.Helper()
	p.preselected = preselected
	return p.multi, nil
}

func (p *fakePrompter) Confirm(title string, defaultValue bool) (bool, error) {
	p.t.Helper()
	if len(p.confirms) == 0 {
		p.t.Fatalf("unexpected confirm prompt: %s", title)
	}
	value := p.confirms[0]
	p.confirms = p.confirms[1:]
	return value, nil
}

func flaskDetection() detector.Detection {
	return detector.Detection{
		Language:  config.LanguagePython,
		Archetype: config.ArchetypeFlask,
		Port:      5000,
		BuildCmd:  "pip install -r requirements.txt",
		StartCmd:  "gunicorn -w 4 -b 0.0.0.0:5000 app:app",
	}
}

func TestRun_HappyPath(t *testing.T) {
	prompter := &fakePrompter{
		t: t,
		inputs: []string{
			"my-app", // project name
			"",       // port (default from detection)
			"",       // build command
			"",       // start command
			"203.0.113.10",
			"deploy",
			"~/.ssh/id_ed25519",
			"", // deploy dir default
			"production",
			"", // production branch default
			"", // registry default
		},
		selects:  []string{"", "confirm"},
		confirms: []bool{false, false}, // no domain, no staging
	}
	store := state.NewMemStore()

	cfg, err := New(prompter, store).Run(flaskDetection(), "my-app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Project.Name != "my-app" {
		t.Fatalf("expected project name my-app, got %s", cfg.Project.Name)
	}
	if cfg.Project.Archetype != config.ArchetypeFlask {
		t.Fatalf("expected flask archetype, got %s", cfg.Project.Archetype)
	}
	if cfg.Project.Port != 5000 {
		t.Fatalf("expected detection port 5000, got %d", cfg.Project.Port)
	}
	if cfg.Project.Language != config.LanguagePython {
		t.Fatalf("expected python, got %s", cfg.Project.Language)
	}
	if cfg.Server.Host != "203.0.113.10" || cfg.Server.User != "deploy" {
		t.Fatalf("unexpected server settings: %+v", cfg.Server)
	}
	if cfg.Server.DeployDir != "/srv/my-app" {
		t.Fatalf("expected default deploy dir /srv/my-app, got %s", cfg.Server.DeployDir)
	}
	if cfg.Domain.Enabled {
		t.Fatal("expected domain to be disabled")
	}
	if cfg.Branches.Production != "main" || cfg.Branches.Staging != "" {
		t.Fatalf("unexpected branches: %+v", cfg.Branches)
	}
	if cfg.Registry != "ghcr.io" {
		t.Fatalf("expected default registry, got %s", cfg.Registry)
	}

	global, _ := store.Load()
	profile, ok := global.Profiles["production"]
	if !ok {
		t.Fatal("expected server profile to be saved")
	}
	if profile.Host != "203.0.113.10" {
		t.Fatalf("unexpected saved profile: %+v", profile)
	}
}

func TestRun_EditServerThenConfirm(t *testing.T) {
	prompter := &fakePrompter{
		t: t,
		inputs: []string{
			"my-app",
			"", "", "", // port, build, start
			"203.0.113.10", "root", "~/.ssh/id_rsa", "", "production",
			"",            // production branch
			"",            // registry
			"/srv/other",  // deploy dir on re-entry via saved profile
		},
		selects:  []string{"", "edit-server", "production", "confirm"},
		confirms: []bool{false, false},
	}
	store := state.NewMemStore()

	cfg, err := New(prompter, store).Run(flaskDetection(), "my-app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Editing the server section must not disturb the project section.
	if cfg.Project.Name != "my-app" || cfg.Project.Port != 5000 {
		t.Fatalf("project section changed during server edit: %+v", cfg.Project)
	}
	if cfg.Server.DeployDir != "/srv/other" {
		t.Fatalf("expected edited deploy dir, got %s", cfg.Server.DeployDir)
	}
	if cfg.Server.Host != "203.0.113.10" {
		t.Fatalf("expected reused profile host, got %s", cfg.Server.Host)
	}
}

func TestRun_CancelKeepsSavedProfile(t *testing.T) {
	prompter := &fakePrompter{
		t: t,
		inputs: []string{
			"my-app",
			"", "", "",
			"203.0.113.10", "root", "~/.ssh/id_rsa", "", "production",
			"",
			"",
		},
		selects:  []string{"", "cancel"},
		confirms: []bool{false, false},
	}
	store := state.NewMemStore()

	cfg, err := New(prompter, store).Run(flaskDetection(), "my-app")
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if cfg != nil {
		t.Fatal("expected no config on cancel")
	}

	// The profile was saved during collection and survives the cancel.
	global, _ := store.Load()
	if _, ok := global.Profiles["production"]; !ok {
		t.Fatal("expected profile to remain saved after cancel")
	}
}

func TestRun_InvalidProjectName(t *testing.T) {
	prompter := &fakePrompter{
		t:      t,
		inputs: []string{"My App"},
	}

	if _, err := New(prompter, state.NewMemStore()).Run(flaskDetection(), ""); err == nil {
		t.Fatal("expected validation error for invalid project name")
	}
}

func TestRun_SecretPreselection(t *testing.T) {
	det := flaskDetection()
	det.EnvKeys = []string{"DATABASE_URL", "API_KEY", "DEBUG", "JWT_SECRET"}

	prompter := &fakePrompter{
		t: t,
		inputs: []string{
			"my-app",
			"", "", "",
			"203.0.113.10", "root", "~/.ssh/id_rsa", "", "production",
			"",
			"",
		},
		selects:  []string{"", "confirm"},
		confirms: []bool{false, false},
		multi:    []string{"API_KEY", "JWT_SECRET"},
	}
	store := state.NewMemStore()

	cfg, err := New(prompter, store).Run(det, "my-app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !prompter.preselected["API_KEY"] || !prompter.preselected["JWT_SECRET"] {
		t.Fatalf("expected secret-looking keys preselected, got %v", prompter.preselected)
	}
	if prompter.preselected["DEBUG"] {
		t.Fatal("DEBUG should not be preselected")
	}
	if len(cfg.Secrets) != 2 {
		t.Fatalf("expected 2 selected secrets, got %v", cfg.Secrets)
	}
}

func TestRun_NoEnvKeysSkipsSecretsPrompt(t *testing.T) {
	prompter := &fakePrompter{
		t: t,
		inputs: []string{
			"my-app",
			"", "", "",
			"203.0.113.10", "root", "~/.ssh/id_rsa", "", "production",
			"",
			"",
		},
		selects:  []string{"", "confirm"},
		confirms: []bool{false, false},
	}

	cfg, err := New(prompter, state.NewMemStore()).Run(flaskDetection(), "my-app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prompter.preselected != nil {
		t.Fatal("secrets prompt should not run without env keys")
	}
	if cfg.Secrets != nil {
		t.Fatalf("expected no secrets, got %v", cfg.Secrets)
	}
}

func TestRun_ExistingProfileReuse(t *testing.T) {
	store := state.NewMemStore()
	seed, _ := store.Load()
	seed.SetProfile("prod", state.ServerProfile{
		Host:      "198.51.100.7",
		User:      "deploy",
		KeyPath:   "~/.ssh/id_rsa",
		DeployDir: "/srv/old",
	})
	if err := store.Save(seed); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	prompter := &fakePrompter{
		t: t,
		inputs: []string{
			"my-app",
			"", "", "",
			"", // deploy dir (accept profile default)
			"",
			"",
		},
		selects:  []string{"", "prod", "confirm"},
		confirms: []bool{false, false},
	}

	cfg, err := New(prompter, store).Run(flaskDetection(), "my-app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "198.51.100.7" || cfg.Server.User != "deploy" {
		t.Fatalf("expected profile connection data, got %+v", cfg.Server)
	}
	if cfg.Server.DeployDir != "/srv/old" {
		t.Fatalf("expected profile deploy dir, got %s", cfg.Server.DeployDir)
	}
}

func TestRun_DomainAndStaging(t *testing.T) {
	prompter := &fakePrompter{
		t: t,
		inputs: []string{
			"my-app",
			"", "", "",
			"203.0.113.10", "root", "~/.ssh/id_rsa", "", "production",
			"app.example.com", // domain name
			"",                // production branch
			"",                // staging branch default
			"",                // registry
		},
		selects:  []string{"", "confirm"},
		confirms: []bool{true, true, true}, // domain, https, staging
	}

	cfg, err := New(prompter, state.NewMemStore()).Run(flaskDetection(), "my-app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Domain.Enabled || cfg.Domain.Name != "app.example.com" || !cfg.Domain.HTTPS {
		t.Fatalf("unexpected domain settings: %+v", cfg.Domain)
	}
	if cfg.Branches.Staging != "develop" {
		t.Fatalf("expected default staging branch, got %s", cfg.Branches.Staging)
	}
}
