package template

import (
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

//go:embed templates/*.html templates/*.json
var bundledFS embed.FS

// Config contains template store parameters.
type Config struct {
	// OverrideDir points at a directory whose <name>.html and <name>.json
	// files take precedence over the bundled defaults. Optional.
	OverrideDir string `envconfig:"EMAIL_TEMPLATES_DIR"`
}

// Store loads HTML template bodies and their default content values from the
// bundled templates, optionally overridden per file by a configured
// directory.
type Store struct {
	overrideDir string
	bundled     fs.FS
	logger      *slog.Logger
}

// NewStore creates a Store backed by the bundled templates.
func NewStore(cfg Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	bundled, err := fs.Sub(bundledFS, "templates")
	if err != nil {
		// The subdirectory is embedded at compile time, so this cannot
		// happen for a correctly built binary.
		panic(err)
	}

	return &Store{
		overrideDir: cfg.OverrideDir,
		bundled:     bundled,
		logger:      logger.WithGroup("templates"),
	}
}

// LoadTemplate returns the HTML body for the named template. The override
// directory wins when it contains <name>.html, otherwise the bundled default
// is used. The second return value is false when neither source has the
// template; callers decide whether that is an error.
func (s *Store) LoadTemplate(name string) (string, bool) {
	filename := name + ".html"

	if s.overrideDir != "" {
		path := filepath.Join(s.overrideDir, filename)
		if content, err := os.ReadFile(path); err == nil {
			s.logger.Debug("loaded template override", "template", name, "path", path)
			return string(content), true
		} else if !os.IsNotExist(err) {
			s.logger.Warn("failed to read template override", "template", name, "path", path, "error", err.Error())
		}
	}

	content, err := fs.ReadFile(s.bundled, filename)
	if err != nil {
		s.logger.Warn("template not found", "template", name)
		return "", false
	}
	return string(content), true
}

// LoadValues returns the default content values for the named template: the
// bundled <name>.json if present (else an empty map), shallow-merged with the
// top-level keys of the override directory's <name>.json (override wins per
// key). Read or parse failures are logged and contribute nothing.
func (s *Store) LoadValues(name string) map[string]any {
	filename := name + ".json"

	values := map[string]any{}
	if raw, err := fs.ReadFile(s.bundled, filename); err == nil {
		if err := json.Unmarshal(raw, &values); err != nil {
			s.logger.Warn("failed to parse bundled template values", "template", name, "error", err.Error())
			values = map[string]any{}
		}
	}

	if s.overrideDir == "" {
		return values
	}

	path := filepath.Join(s.overrideDir, filename)
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read template values override", "template", name, "path", path, "error", err.Error())
		}
		return values
	}

	overrides := map[string]any{}
	if err := json.Unmarshal(raw, &overrides); err != nil {
		s.logger.Warn("failed to parse template values override", "template", name, "path", path, "error", err.Error())
		return values
	}

	return Merge(values, overrides)
}
