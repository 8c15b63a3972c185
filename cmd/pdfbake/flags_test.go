package main

import "testing"

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantPositional int
		check          func(t *testing.T, f *cliFlags)
	}{
		{
			name:           "config only",
			args:           []string{"pdfbake", "main.yaml"},
			wantPositional: 1,
		},
		{
			name:           "config and document names",
			args:           []string{"pdfbake", "main.yaml", "flyer", "poster"},
			wantPositional: 3,
		},
		{
			name:           "level flags",
			args:           []string{"pdfbake", "-q", "-v", "-t", "main.yaml"},
			wantPositional: 1,
			check: func(t *testing.T, f *cliFlags) {
				if !f.quiet || !f.verbose || !f.trace {
					t.Errorf("flags = %+v, want quiet, verbose and trace set", f)
				}
			},
		},
		{
			name:           "debug implies trace and keep-build",
			args:           []string{"pdfbake", "--debug", "main.yaml"},
			wantPositional: 1,
			check: func(t *testing.T, f *cliFlags) {
				if !f.trace || !f.keepBuild {
					t.Errorf("flags = %+v, want trace and keepBuild set", f)
				}
			},
		},
		{
			name:           "keep-build alone",
			args:           []string{"pdfbake", "--keep-build", "main.yaml"},
			wantPositional: 1,
			check: func(t *testing.T, f *cliFlags) {
				if !f.keepBuild {
					t.Error("keepBuild = false, want true")
				}
				if f.trace {
					t.Error("trace = true, want false")
				}
			},
		},
		{
			name:           "version",
			args:           []string{"pdfbake", "--version"},
			wantPositional: 0,
			check: func(t *testing.T, f *cliFlags) {
				if !f.version {
					t.Error("version = false, want true")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, positional, err := parseFlags(tt.args)
			if err != nil {
				t.Fatalf("parseFlags(%v) error = %v", tt.args, err)
			}
			if len(positional) != tt.wantPositional {
				t.Errorf("positional args = %v, want %d", positional, tt.wantPositional)
			}
			if tt.check != nil {
				tt.check(t, f)
			}
		})
	}
}

func TestParseFlagsUnknownFlag(t *testing.T) {
	if _, _, err := parseFlags([]string{"pdfbake", "--bogus"}); err == nil {
		t.Error("parseFlags(--bogus) error = nil, want error")
	}
}
