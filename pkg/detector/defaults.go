package detector

import "slipway/pkg/config"

// ArchetypeDefaults holds the static runtime parameters seeded for a
// detected archetype. Values are fixed at design time.
type ArchetypeDefaults struct {
	Port      int
	BuildCmd  string
	StartCmd  string
	EntryFile string
}

// defaultsByArchetype is the eight-entry default table. Implemented as an
// immutable map keyed by the closed archetype enumeration.
var defaultsByArchetype = map[config.Archetype]ArchetypeDefaults{
	config.ArchetypeFlask: {
		Port:      5000,
		BuildCmd:  "pip install -r requirements.txt",
		StartCmd:  "gunicorn -w 4 -b 0.0.0.0:5000 app:app",
		EntryFile: "app.py",
	},
	config.ArchetypeDjango: {
		Port:      8000,
		BuildCmd:  "pip install -r requirements.txt",
		StartCmd:  "gunicorn -w 4 -b 0.0.0.0:8000 wsgi:application",
		EntryFile: "manage.py",
	},
	config.ArchetypeFastAPI: {
		Port:      8000,
		BuildCmd:  "pip install -r requirements.txt",
		StartCmd:  "uvicorn main:app --host 0.0.0.0 --port 8000",
		EntryFile: "main.py",
	},
	config.ArchetypeNestJS: {
		Port:      3000,
		BuildCmd:  "npm run build",
		StartCmd:  "node dist/main.js",
		EntryFile: "src/main.ts",
	},
	config.ArchetypeNextJS: {
		Port:      3000,
		BuildCmd:  "npm run build",
		StartCmd:  "npm run start",
		EntryFile: "next.config.js",
	},
	config.ArchetypeNuxtJS: {
		Port:      3000,
		BuildCmd:  "npm run build",
		StartCmd:  "node .output/server/index.mjs",
		EntryFile: "nuxt.config.ts",
	},
	config.ArchetypeVueSPA: {
		Port:      80,
		BuildCmd:  "npm run build",
		StartCmd:  "nginx -g 'daemon off;'",
		EntryFile: "src/main.js",
	},
	config.ArchetypeReactSPA: {
		Port:      80,
		BuildCmd:  "npm run build",
		StartCmd:  "nginx -g 'daemon off;'",
		EntryFile: "src/index.js",
	},
}

// DefaultsFor returns the static defaults for an archetype.
func DefaultsFor(a config.Archetype) (ArchetypeDefaults, bool) {
	d, ok := defaultsByArchetype[a]
	return d, ok
}
