package pdfbake

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pdfbake/pdfbake/internal/fileutil"
	"github.com/pdfbake/pdfbake/internal/yamlutil"
)

// Keys of the run-level fixed schema. Everything else in the run YAML
// is inherited by documents as opaque settings.
var runSchemaKeys = []string{"config_file", "documents"}

// RunConfig is the top-level configuration of one run. It owns the list
// of document locations but not the documents' content; documents are
// loaded lazily, one at a time, so a malformed document does not abort
// processing of the others.
type RunConfig struct {
	ConfigFile  string
	Directories Directories
	Documents   []PathSpec
	Settings    Settings

	logger *slog.Logger
}

// LoadRunConfig reads the run's YAML, validates the document list and
// resolves directory roles and document locations to absolute paths.
// Default directories are rooted at the config file's parent; a
// user-specified "directories" mapping is layered on top of the
// defaults, never the reverse.
func LoadRunConfig(configFile string, logger *slog.Logger) (*RunConfig, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(configFile)
	if err != nil {
		return nil, fmt.Errorf("resolving config path %q: %w", configFile, err)
	}
	if !fileutil.FileExists(abs) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, abs)
	}

	data, err := yamlutil.MapFromFile(abs)
	if err != nil {
		return nil, err
	}
	if _, ok := data["documents"]; !ok {
		return nil, fmt.Errorf("%w (%s)", ErrMissingDocuments, filepath.Base(abs))
	}

	defaults, err := DefaultDirectories(filepath.Dir(abs))
	if err != nil {
		return nil, err
	}
	dirMap := Settings(defaults.asMap())
	if userDirs, ok := data["directories"].(map[string]any); ok {
		dirMap = dirMap.DeepMerge(userDirs)
	}
	var dirs Directories
	if err := yamlutil.Decode(map[string]any(dirMap), &dirs); err != nil {
		return nil, fmt.Errorf("parsing directories of %s: %w", filepath.Base(abs), err)
	}
	dirs, err = dirs.WithBase(dirs.Base)
	if err != nil {
		return nil, err
	}
	// Documents, build and dist are anchored at the run level; the
	// remaining roles stay relative so documents can re-anchor them.
	dirs.Documents = dirs.Resolve(dirs.Documents)
	dirs.Build = dirs.Resolve(dirs.Build)
	dirs.Dist = dirs.Resolve(dirs.Dist)

	docs, err := NewPathSpecList(data["documents"])
	if err != nil {
		return nil, fmt.Errorf("parsing documents of %s: %w", filepath.Base(abs), err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w (%s)", ErrMissingDocuments, filepath.Base(abs))
	}
	for i := range docs {
		if docs[i].Path == "" {
			// Forward declaration: synthesize the path from the name.
			docs[i].Path = docs[i].Name
		}
		docs[i] = docs[i].ResolveRelativeTo(dirs.Documents)
	}

	settings := Settings(data).Clone()
	settings["config_file"] = abs
	settings["directories"] = dirs.asMap()

	cfg := &RunConfig{
		ConfigFile:  abs,
		Directories: dirs,
		Documents:   docs,
		Settings:    settings,
		logger:      logger,
	}
	logger.Log(context.Background(), LevelTrace, "loaded main configuration",
		"config_file", abs, "settings", settings.Readable(DefaultReadableMaxChars))
	return cfg, nil
}

// DocumentSettings returns everything except the config file location
// and the documents list itself: the inherited base each document
// merges its own YAML on top of.
func (c *RunConfig) DocumentSettings() Settings {
	return c.Settings.Without("config_file", "documents")
}

// UserDefinedSettings returns the keys outside the run-level schema.
func (c *RunConfig) UserDefinedSettings() Settings {
	keys := append([]string{"directories"}, runSchemaKeys...)
	return c.Settings.UserDefined(keys...)
}

// Readable returns a truncated diagnostic dump of the run settings.
func (c *RunConfig) Readable(maxChars int) string {
	return c.Settings.Readable(maxChars)
}
