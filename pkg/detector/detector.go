// Package detector classifies a project directory by heuristic file and
// content sniffing: language, framework archetype, network port, and
// build/start commands. Detection is a pure function of filesystem state.
package detector

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"

	"slipway/pkg/config"
	"slipway/pkg/util"
)

// Detection is the immutable result of inspecting a project directory.
type Detection struct {
	Language      config.Language  `json:"language"`
	Archetype     config.Archetype `json:"archetype,omitempty"`
	Port          int              `json:"port,omitempty"`
	BuildCmd      string           `json:"build_cmd,omitempty"`
	StartCmd      string           `json:"start_cmd,omitempty"`
	EntryFile     string           `json:"entry_file,omitempty"`
	HasDockerfile bool             `json:"has_dockerfile"`
	HasCI         bool             `json:"has_ci"`
	EnvKeys       []string         `json:"env_keys,omitempty"`
}

// Env files are checked in this priority order; the first present wins.
var envFileCandidates = []string{".env", ".env.example", ".env.production"}

// Python dependency manifests, any of which marks the Python branch.
var pythonManifests = []string{"requirements.txt", "pyproject.toml", "Pipfile"}

// Port override patterns, applied per candidate file in this order.
var portPatterns = []*regexp.Regexp{
	regexp.MustCompile(`port\s*[=:]\s*(\d{4,5})`),
	regexp.MustCompile(`listen\s*\(\s*(\d{4,5})`),
	regexp.MustCompile(`PORT\s*[=:]\s*["']?(\d{4,5})`),
}

// Source files scanned for port overrides, per language.
var portScanFiles = map[config.Language][]string{
	config.LanguagePython: {"app.py", "main.py"},
	config.LanguageNode:   {"server.js", "index.js", "src/server.js", "src/index.js"},
}

// DetectPath inspects the project at root. Missing or unreadable directories
// propagate as filesystem errors.
func DetectPath(root string) (Detection, error) {
	info, err := os.Stat(root)
	if err != nil {
		return Detection{}, fmt.Errorf("cannot access project directory: %w", err)
	}
	if !info.IsDir() {
		return Detection{}, fmt.Errorf("path %q is not a directory", root)
	}
	return Detect(os.DirFS(root))
}

// Detect inspects a project filesystem and returns its classification. A
// project matching no archetype yields Archetype == ArchetypeNone rather
// than an error; a malformed package.json propagates as a parse error.
func Detect(fsys fs.FS) (Detection, error) {
	r := fsReader{fsys: fsys}

	d := Detection{
		Language:      config.LanguageUnknown,
		HasDockerfile: r.Has("Dockerfile"),
		HasCI:         r.DirExists(".github/workflows"),
		EnvKeys:       discoverEnvKeys(r),
	}

	// Python markers are checked before Node; first match wins.
	switch {
	case hasAny(r, pythonManifests):
		d.Language = config.LanguagePython
		d.Archetype = detectPython(r)
	case r.Has("package.json"):
		d.Language = config.LanguageNode
		archetype, err := detectNode(r)
		if err != nil {
			return Detection{}, err
		}
		d.Archetype = archetype
	}

	if defaults, ok := DefaultsFor(d.Archetype); ok {
		d.Port = defaults.Port
		d.BuildCmd = defaults.BuildCmd
		d.StartCmd = defaults.StartCmd
		d.EntryFile = defaults.EntryFile
	}

	applyFlaskFactoryRefinement(r, &d)

	if port := scanPortOverride(r, d.Language); port > 0 {
		d.Port = port
	}

	return d, nil
}

func hasAny(r fsReader, paths []string) bool {
	for _, p := range paths {
		if r.Has(p) {
			return true
		}
	}
	return false
}

func discoverEnvKeys(r fsReader) []string {
	for _, name := range envFileCandidates {
		if r.Has(name) {
			return util.ParseEnvKeys(r.Read(name))
		}
	}
	return nil
}

// detectPython scans dependency manifest content first, then falls back to
// filename presence. Content priority: fastapi, django, flask.
func detectPython(r fsReader) config.Archetype {
	contentChecks := []struct {
		needle    string
		archetype config.Archetype
	}{
		{"fastapi", config.ArchetypeFastAPI},
		{"django", config.ArchetypeDjango},
		{"flask", config.ArchetypeFlask},
	}

	for _, check := range contentChecks {
		for _, manifest := range pythonManifests {
			if containsFold(r.Read(manifest), check.needle) {
				return check.archetype
			}
		}
	}

	switch {
	case r.Has("manage.py"):
		return config.ArchetypeDjango
	case r.Has("app.py"):
		return config.ArchetypeFlask
	case r.Has("main.py"):
		return config.ArchetypeFastAPI
	}
	return config.ArchetypeNone
}

// packageJSON is the subset of package.json detection cares about.
type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func (p *packageJSON) has(name string) bool {
	if _, ok := p.Dependencies[name]; ok {
		return true
	}
	_, ok := p.DevDependencies[name]
	return ok
}

// detectNode parses package.json dependencies and checks frameworks in
// priority order. Vue and React only count as SPAs when their meta-framework
// is absent.
func detectNode(r fsReader) (config.Archetype, error) {
	var pkg packageJSON
	if err := json.Unmarshal([]byte(r.Read("package.json")), &pkg); err != nil {
		return config.ArchetypeNone, fmt.Errorf("failed to parse package.json: %w", err)
	}

	switch {
	case pkg.has("@nestjs/core"):
		return config.ArchetypeNestJS, nil
	case pkg.has("next"):
		return config.ArchetypeNextJS, nil
	case pkg.has("nuxt") || pkg.has("nuxt3"):
		return config.ArchetypeNuxtJS, nil
	case pkg.has("vue"):
		return config.ArchetypeVueSPA, nil
	case pkg.has("react"):
		return config.ArchetypeReactSPA, nil
	}
	return config.ArchetypeNone, nil
}

// applyFlaskFactoryRefinement rewrites the gunicorn module target when the
// project uses the application-factory convention: run.py exists and
// mentions create_app.
func applyFlaskFactoryRefinement(r fsReader, d *Detection) {
	if d.Archetype != config.ArchetypeFlask {
		return
	}
	if !r.Has("run.py") || !strings.Contains(r.Read("run.py"), "create_app") {
		return
	}
	d.StartCmd = strings.Replace(d.StartCmd, "app:app", "run:app", 1)
	d.EntryFile = "run.py"
}

// scanPortOverride checks candidate source files against the port patterns,
// file order then pattern order; the first numeric match wins.
func scanPortOverride(r fsReader, lang config.Language) int {
	for _, file := range portScanFiles[lang] {
		content := r.Read(file)
		if content == "" {
			continue
		}
		for _, pattern := range portPatterns {
			if m := pattern.FindStringSubmatch(content); m != nil {
				if port, err := strconv.Atoi(m[1]); err == nil {
					return port
				}
			}
		}
	}
	return 0
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
