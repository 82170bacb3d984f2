package main

import (
	"strings"
	"testing"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantExit bool
		wantCode int
	}{
		{"none", nil, false, 0},
		{"config", []string{"-c", "inkpad.toml"}, false, 0},
		{"headless", []string{"-headless", "-log-level", "debug"}, false, 0},
		{"version", []string{"-v"}, true, 0},
		{"help", []string{"-h"}, true, 0},
		{"bad level", []string{"-log-level", "loud"}, true, 1},
		{"unknown flag", []string{"-nope"}, true, 2},
		{"stray arg", []string{"file.txt"}, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr strings.Builder
			_, exit, code := parseFlags(tt.args, &stdout, &stderr)
			if exit != tt.wantExit || code != tt.wantCode {
				t.Errorf("parseFlags(%v) = exit %v code %d, want exit %v code %d",
					tt.args, exit, code, tt.wantExit, tt.wantCode)
			}
		})
	}
}

func TestParseFlags_Values(t *testing.T) {
	var stdout, stderr strings.Builder
	opts, _, _ := parseFlags([]string{"-config", "a.yaml", "-headless", "-script", "x.lua"}, &stdout, &stderr)
	if opts.ConfigPath != "a.yaml" || !opts.Headless || opts.Script != "x.lua" {
		t.Errorf("opts = %+v", opts)
	}
}

func TestParseFlags_Version(t *testing.T) {
	var stdout, stderr strings.Builder
	parseFlags([]string{"-version"}, &stdout, &stderr)
	if !strings.HasPrefix(stdout.String(), "inkpad dev") {
		t.Errorf("version output = %q", stdout.String())
	}
}
