package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const samplePost = `---
title: Azure Landing Zones
category: Cloud
---
# Landing zones
`

func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	contentDir := filepath.Join(root, "content")
	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(contentDir, "azure.md"), []byte(samplePost), 0o644); err != nil {
		t.Fatalf("write post: %v", err)
	}
	config := "storage:\n  provider: file\n  dir: " + filepath.Join(root, "data") + "\nlogging:\n  provider: noop\n"
	path := filepath.Join(root, "contentstore.yaml")
	if err := os.WriteFile(path, []byte(config), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path, contentDir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env")))
	err := cmd.Execute()
	return out.String(), err
}

type listOutput struct {
	Language string            `json:"language"`
	Items    []json.RawMessage `json:"items"`
	Total    int               `json:"total"`
}

func listBlog(t *testing.T, configPath string) listOutput {
	t.Helper()
	out, err := run(t, "list", "blog", "--config", configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var parsed listOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("decode list output %q: %v", out, err)
	}
	return parsed
}

func TestImportDryRunWritesNothing(t *testing.T) {
	configPath, contentDir := writeConfig(t)

	out, err := run(t, "import", contentDir, "--dry-run", "--config", configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "[dry-run] 1 created") {
		t.Fatalf("expected dry-run summary, got %q", out)
	}
	if got := listBlog(t, configPath); got.Total != 0 {
		t.Fatalf("expected no posts after dry run, got %d", got.Total)
	}
}

func TestImportThenList(t *testing.T) {
	configPath, contentDir := writeConfig(t)

	out, err := run(t, "import", contentDir, "--config", configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "1 created, 0 updated, 0 skipped, 0 failed") {
		t.Fatalf("unexpected import summary %q", out)
	}

	got := listBlog(t, configPath)
	if got.Total != 1 || got.Language != "en" {
		t.Fatalf("expected one en post, got %+v", got)
	}

	out, err = run(t, "import", contentDir, "--config", configPath)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if !strings.Contains(out, "0 created, 0 updated, 1 skipped") {
		t.Fatalf("expected unchanged post to be skipped, got %q", out)
	}
}

func TestListRejectsUnknownCollection(t *testing.T) {
	configPath, _ := writeConfig(t)
	if _, err := run(t, "list", "widgets", "--config", configPath); err == nil {
		t.Fatal("expected error for unknown collection")
	}
}

func TestSettingsReset(t *testing.T) {
	configPath, _ := writeConfig(t)
	out, err := run(t, "settings", "reset", "--config", configPath)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !strings.Contains(out, `"ctaButtonLink": "/training"`) {
		t.Fatalf("expected default settings in output, got %q", out)
	}
}

func TestMissingConfigFileFails(t *testing.T) {
	if _, err := run(t, "list", "blog", "--config", filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- listenAndServe(ctx, server, time.Second) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
