// Package sessionfile loads Session values from the YAML session-file
// format spec.md §6 defines, plus the manifest-directory alternative
// layout (<dir>/manifest.{yml,json} + per-session files + optional
// auth/state.enc). Grounded on the teacher's JSON session round-trip
// (internal/browser/session.go's SaveSessionToFile/LoadSessionFromFile)
// generalized to YAML via gopkg.in/yaml.v3, the module the rest of the
// example pack already uses for config/session documents.
package sessionfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vulcn-dast/vulcn/internal/model"
)

// yamlStep mirrors model.Step with YAML tags; the wire shape uses
// snake-free camelCase keys per spec.md §3/§6.
type yamlStep struct {
	ID         string `yaml:"id"`
	Kind       string `yaml:"kind"`
	URL        string `yaml:"url,omitempty"`
	Parameter  string `yaml:"parameter,omitempty"`
	Selector   string `yaml:"selector,omitempty"`
	Value      string `yaml:"value,omitempty"`
	Injectable bool   `yaml:"injectable,omitempty"`
	WaitMillis int64  `yaml:"waitMillis,omitempty"`
	Assert     string `yaml:"assert,omitempty"`
}

type yamlDriverConfig struct {
	Browser  string `yaml:"browser"`
	Headless bool   `yaml:"headless"`
	StartURL string `yaml:"startUrl"`
}

type yamlSession struct {
	Name         string            `yaml:"name"`
	Driver       string            `yaml:"driver"`
	DriverConfig yamlDriverConfig  `yaml:"driverConfig"`
	Steps        []yamlStep        `yaml:"steps"`
	Metadata     map[string]string `yaml:"metadata,omitempty"`
	StorageState string            `yaml:"storageState,omitempty"`
	ExtraHeaders map[string]string `yaml:"extraHeaders,omitempty"`
}

// Load reads a single YAML session file.
func Load(path string) (model.Session, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Session{}, fmt.Errorf("sessionfile: read %s: %w", path, err)
	}

	var doc yamlSession
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return model.Session{}, fmt.Errorf("sessionfile: parse %s: %w", path, err)
	}
	return toModel(doc)
}

func toModel(doc yamlSession) (model.Session, error) {
	if doc.Driver != "browser" {
		return model.Session{}, fmt.Errorf("sessionfile: %w: session %q: driver must be \"browser\", got %q", model.ErrConfiguration, doc.Name, doc.Driver)
	}

	steps := make([]model.Step, 0, len(doc.Steps))
	injectableCount := 0
	for _, s := range doc.Steps {
		step := model.Step{
			ID:         s.ID,
			Kind:       model.StepKind(s.Kind),
			URL:        s.URL,
			Parameter:  s.Parameter,
			Selector:   s.Selector,
			Value:      s.Value,
			Injectable: s.Injectable,
			Wait:       time.Duration(s.WaitMillis) * time.Millisecond,
			Assert:     s.Assert,
		}
		if step.Injectable {
			injectableCount++
		}
		steps = append(steps, step)
	}
	if injectableCount > 1 {
		return model.Session{}, fmt.Errorf("sessionfile: %w: session %q: at most one injectable step allowed, found %d", model.ErrConfiguration, doc.Name, injectableCount)
	}

	return model.Session{
		Name:   doc.Name,
		Driver: doc.Driver,
		Config: model.DriverConfig{
			Browser:  doc.DriverConfig.Browser,
			Headless: doc.DriverConfig.Headless,
			StartURL: doc.DriverConfig.StartURL,
		},
		Steps:        steps,
		Metadata:     doc.Metadata,
		StorageState: doc.StorageState,
		ExtraHeaders: doc.ExtraHeaders,
	}, nil
}

// manifest is the directory-layout index: <dir>/manifest.{yml,json} lists
// the per-session files plus an optional shared encrypted storage blob
// path (spec.md §6's session-directory alternative).
type manifest struct {
	Sessions       []string `yaml:"sessions" json:"sessions"`
	AuthStatePath  string   `yaml:"authState,omitempty" json:"authState,omitempty"`
}

// LoadDir loads every session referenced by a manifest directory,
// preferring manifest.yml and falling back to manifest.json.
func LoadDir(dir string) ([]model.Session, error) {
	var (
		m   manifest
		err error
	)

	ymlPath := filepath.Join(dir, "manifest.yml")
	jsonPath := filepath.Join(dir, "manifest.json")

	if raw, rerr := os.ReadFile(ymlPath); rerr == nil {
		err = yaml.Unmarshal(raw, &m)
	} else if raw, rerr := os.ReadFile(jsonPath); rerr == nil {
		err = json.Unmarshal(raw, &m)
	} else {
		return nil, fmt.Errorf("sessionfile: %w: no manifest.yml or manifest.json in %s", model.ErrConfiguration, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("sessionfile: parse manifest in %s: %w", dir, err)
	}

	var authBlob string
	if m.AuthStatePath != "" {
		blobPath := filepath.Join(dir, m.AuthStatePath)
		if raw, rerr := os.ReadFile(blobPath); rerr == nil {
			authBlob = string(raw)
		}
	}

	sessions := make([]model.Session, 0, len(m.Sessions))
	for _, name := range m.Sessions {
		sess, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if sess.StorageState == "" {
			sess.StorageState = authBlob
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}
