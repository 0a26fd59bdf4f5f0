package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "ambu") {
		t.Errorf("version output = %q, want the binary name", got)
	}
	if !strings.Contains(got, Version) {
		t.Errorf("version output = %q, want version %q", got, Version)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	want := []string{
		"version", "login", "logout", "register", "forgot-password", "whoami",
		"tenants", "drivers", "fleet", "requests", "assign", "trip", "watch",
	}
	have := map[string]bool{}
	for _, sub := range cmd.Commands() {
		have[sub.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestUnknownCommandFails(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"derail"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error for an unknown command")
	}
}

func TestLogin_RequiresEmail(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"login", "--config", "does-not-exist.yaml"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error when the config file is missing")
	}
}
