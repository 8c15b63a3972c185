package pdfbake

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/pdfbake/pdfbake/internal/yamlutil"
)

// Environment variables passed to custom bake scripts.
const (
	EnvDocumentName = "PDFBAKE_DOCUMENT"
	EnvConfigPath   = "PDFBAKE_CONFIG"
	EnvBuildDir     = "PDFBAKE_BUILD_DIR"
	EnvDistDir      = "PDFBAKE_DIST_DIR"
)

// BakeScriptRunner abstracts custom bake script execution for testing.
type BakeScriptRunner interface {
	RunScript(ctx context.Context, script string, env []string, stdin []byte) (stdout string, stderr string, err error)
}

// execScriptRunner implements BakeScriptRunner using os/exec.
type execScriptRunner struct{}

func (execScriptRunner) RunScript(ctx context.Context, script string, env []string, stdin []byte) (string, string, error) {
	cmd := exec.CommandContext(ctx, script) // #nosec G204 -- script location comes from user config
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// RunCustomBake invokes a document's custom processing script instead
// of the standard page pipeline. The script receives the document's
// full settings as YAML on stdin and the build/dist locations in its
// environment; every non-empty stdout line is taken as the path of a
// produced output file. The core does not inspect what the script does
// beyond success, failure and the reported paths.
func RunCustomBake(ctx context.Context, doc *DocumentConfig, runner BakeScriptRunner) ([]string, error) {
	if doc.CustomBake == nil || doc.CustomBake.IsZero() {
		return nil, fmt.Errorf("%w: %s has no custom bake script", ErrCustomBake, doc.displayName())
	}
	if runner == nil {
		runner = execScriptRunner{}
	}

	payload, err := yamlutil.Marshal(map[string]any(doc.Settings))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: encoding settings: %v", ErrCustomBake, doc.displayName(), err)
	}

	env := []string{
		EnvDocumentName + "=" + doc.Name,
		EnvConfigPath + "=" + doc.ConfigPath.Path,
		EnvBuildDir + "=" + doc.Directories.Resolve(doc.Directories.Build),
		EnvDistDir + "=" + doc.Directories.Resolve(doc.Directories.Dist),
	}

	stdout, stderr, err := runner.RunScript(ctx, doc.CustomBake.Path, env, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v (%s)",
			ErrCustomBake, doc.displayName(), err, strings.TrimSpace(stderr))
	}

	var produced []string
	for line := range strings.Lines(stdout) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			produced = append(produced, trimmed)
		}
	}
	return produced, nil
}
