package fernet

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestFernetKeyUsesInjectedReader(t *testing.T) {
	seed := make([]byte, KeySize)
	for i := range seed {
		seed[i] = byte(i)
	}
	g := NewSecretGenerator(bytes.NewReader(seed))

	got, err := g.FernetKey()
	if err != nil {
		t.Fatalf("FernetKey failed: %v", err)
	}
	if want := base64.URLEncoding.EncodeToString(seed); got != want {
		t.Fatalf("key mismatch: got %s, want %s", got, want)
	}

	// Reader exhausted: the generator must fail, never degrade.
	if _, err := g.FernetKey(); err == nil {
		t.Fatal("expected error from exhausted entropy source")
	}
}

func TestKeyRejectsBadSize(t *testing.T) {
	g := NewSecretGenerator()
	for _, n := range []int{0, -1} {
		if _, err := g.Key(n); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("Key(%d): got %v, want ErrInvalidSize", n, err)
		}
	}
}

func TestReplaceInEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("APP_NAME=demo\nFERNET_KEY=old\nDEBUG=true"), 0600); err != nil {
		t.Fatalf("seed env file: %v", err)
	}

	if err := GenerateKeyInEnvFile(path, "FERNET_KEY"); err != nil {
		t.Fatalf("GenerateKeyInEnvFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read env file: %v", err)
	}
	lines := strings.Split(string(content), "\n")
	if lines[0] != "APP_NAME=demo" || lines[2] != "DEBUG=true" {
		t.Fatalf("unrelated entries disturbed: %q", content)
	}
	value := strings.TrimPrefix(lines[1], "FERNET_KEY=")
	if value == "old" {
		t.Fatal("key was not replaced")
	}
	if _, err := NewKey(value); err != nil {
		t.Fatalf("stored key is not a valid fernet key: %v", err)
	}
}

func TestReplaceInJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"app":"demo"}`), 0600); err != nil {
		t.Fatalf("seed json file: %v", err)
	}

	if err := GenerateKeyInJSONFile(path, "fernet_key"); err != nil {
		t.Fatalf("GenerateKeyInJSONFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read json file: %v", err)
	}
	var data map[string]any
	if err := json.Unmarshal(content, &data); err != nil {
		t.Fatalf("stored file is not valid JSON: %v", err)
	}
	if data["app"] != "demo" {
		t.Fatal("unrelated entries disturbed")
	}
	value, _ := data["fernet_key"].(string)
	if _, err := NewKey(value); err != nil {
		t.Fatalf("stored key is not a valid fernet key: %v", err)
	}
}

func TestReplaceInYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	// File does not exist yet: it should be created.
	if err := GenerateKeyInYAMLFile(path, "fernet_key"); err != nil {
		t.Fatalf("GenerateKeyInYAMLFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read yaml file: %v", err)
	}
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		t.Fatalf("stored file is not valid YAML: %v", err)
	}
	value, _ := data["fernet_key"].(string)
	if _, err := NewKey(value); err != nil {
		t.Fatalf("stored key is not a valid fernet key: %v", err)
	}
}
