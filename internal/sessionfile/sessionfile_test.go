package sessionfile

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
name: login-and-search
driver: browser
driverConfig:
  browser: chromium
  headless: true
  startUrl: https://shop.example/
steps:
  - id: nav1
    kind: navigate
    url: https://shop.example/search?q=shoes
    parameter: q
    injectable: true
  - id: click1
    kind: click
    selector: "button.go"
metadata:
  categories: xss,sqli
`

func TestLoad_ParsesSessionFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.yml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	sess, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess.Name != "login-and-search" || sess.Driver != "browser" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if len(sess.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(sess.Steps))
	}
	focus, ok := sess.FocusStep()
	if !ok || focus.Parameter != "q" {
		t.Fatalf("expected focus step with parameter q, got %+v", focus)
	}
	cats := sess.Categories()
	if len(cats) != 2 || string(cats[0]) != "xss" || string(cats[1]) != "sqli" {
		t.Fatalf("unexpected categories: %+v", cats)
	}
}

func TestLoad_RejectsNonBrowserDriver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.yml")
	os.WriteFile(path, []byte("name: x\ndriver: http\n"), 0o600)

	if _, err := Load(path); err == nil {
		t.Fatal("expected configuration error for non-browser driver")
	}
}

func TestLoad_RejectsMultipleInjectableSteps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.yml")
	doc := `
name: bad
driver: browser
steps:
  - id: a
    kind: input
    selector: "#a"
    injectable: true
  - id: b
    kind: input
    selector: "#b"
    injectable: true
`
	os.WriteFile(path, []byte(doc), 0o600)

	if _, err := Load(path); err == nil {
		t.Fatal("expected configuration error for multiple injectable steps")
	}
}

func TestLoadDir_ReadsManifestAndSessions(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "manifest.yml"), []byte("sessions:\n  - session.yml\n"), 0o600)
	os.WriteFile(filepath.Join(dir, "session.yml"), []byte(sampleYAML), 0o600)

	sessions, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Name != "login-and-search" {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}
}
