package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootHelpListsCommands(t *testing.T) {
	root := newRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"--help"})

	if err := root.Execute(); err != nil {
		t.Fatalf("pubfront --help failed: %v", err)
	}
	out := buf.String()
	for _, cmd := range []string{"serve", "preload", "version"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("expected help output to list %q, got:\n%s", cmd, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("pubfront version failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "pubfront dev") {
		t.Errorf("unexpected version output %q", buf.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	root := newRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"nonexistent-command"})

	if err := root.Execute(); err == nil {
		t.Fatal("expected error for unknown command, got nil")
	}
}

func TestServeRequiresEndpoint(t *testing.T) {
	t.Setenv("WORDPRESS_GRAPHQL_ENDPOINT", "")
	t.Chdir(t.TempDir())

	root := newRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"serve"})

	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "WORDPRESS_GRAPHQL_ENDPOINT") {
		t.Fatalf("expected missing endpoint error, got %v", err)
	}
}
