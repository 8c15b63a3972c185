package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Tools    []toolInfo `json:"tools"`
	OS       string     `json:"os"`
	Arch     string     `json:"arch"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// toolInfo holds detection results for one external tool.
type toolInfo struct {
	Name    string `json:"name"`
	Purpose string `json:"purpose"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// toolLookup finds an executable and reports its version line. Split
// out for testing without the real PATH.
type toolLookup func(name string) (path, version string, found bool)

// defaultLookup probes the real PATH and asks each tool for --version.
func defaultLookup(name string) (string, string, bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", "", false
	}
	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- name is from a fixed tool list
	if err != nil {
		return path, "", true
	}
	version, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return path, version, true
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, stdout io.Writer) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor(defaultLookup)

	if jsonOutput {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(stdout, result)
	}

	if result.Status == "errors" {
		return ExitFailure
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks. At least one SVG backend
// must exist; Ghostscript is only needed for compress_pdf and its
// absence is a warning.
func runDoctor(look toolLookup) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		OS:     runtime.GOOS,
		Arch:   runtime.GOARCH,
	}

	tools := []struct {
		name    string
		purpose string
	}{
		{"rsvg-convert", "SVG to PDF conversion (default backend)"},
		{"inkscape", "SVG to PDF conversion (alternative backend)"},
		{"gs", "PDF compression"},
	}

	backendFound := false
	for _, tool := range tools {
		path, version, found := look(tool.name)
		result.Tools = append(result.Tools, toolInfo{
			Name:    tool.name,
			Purpose: tool.purpose,
			Found:   found,
			Path:    path,
			Version: version,
		})
		if found && tool.name != "gs" {
			backendFound = true
		}
		if !found && tool.name == "gs" {
			result.Warnings = append(result.Warnings,
				"gs not found: compress_pdf will fall back to uncompressed output")
		}
	}

	if !backendFound {
		result.Errors = append(result.Errors,
			"no SVG backend found: install rsvg-convert or inkscape")
	}

	switch {
	case len(result.Errors) > 0:
		result.Status = "errors"
	case len(result.Warnings) > 0:
		result.Status = "warnings"
	}
	return result
}

// printDoctorResult writes a human-readable diagnostic report.
func printDoctorResult(w io.Writer, result *doctorResult) {
	fmt.Fprintf(w, "pdfbake doctor (%s/%s)\n\n", result.OS, result.Arch)

	for _, tool := range result.Tools {
		mark := "ok"
		if !tool.Found {
			mark = "missing"
		}
		fmt.Fprintf(w, "  %-14s %-8s %s\n", tool.Name, mark, tool.Purpose)
		if tool.Found && tool.Version != "" {
			fmt.Fprintf(w, "  %-14s          %s (%s)\n", "", tool.Version, tool.Path)
		}
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "\nwarning: %s\n", warning)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "\nerror: %s\n", e)
	}
	fmt.Fprintf(w, "\nstatus: %s\n", result.Status)
}
