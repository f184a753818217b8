package fernet

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidSize  = errors.New("size must be positive")
	ErrReaderFailed = errors.New("entropy source read failed")
)

// SecretGenerator produces cryptographically secure key material and can
// provision fresh keys directly into configuration files.
type SecretGenerator struct {
	reader io.Reader
}

// NewSecretGenerator creates a generator with the given entropy source.
// If no reader is provided, crypto/rand.Reader is used (recommended).
func NewSecretGenerator(readers ...io.Reader) *SecretGenerator {
	reader := rand.Reader
	if len(readers) > 0 && readers[0] != nil {
		reader = readers[0]
	}
	return &SecretGenerator{reader: reader}
}

// Key returns cryptographically secure random bytes of the requested size.
func (g *SecretGenerator) Key(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	result := make([]byte, size)
	if err := g.readBytesSafe(result); err != nil {
		return nil, err
	}
	return result, nil
}

// FernetKey returns a fresh 32-byte secret as padded url-safe base64,
// the exact form NewKey consumes.
func (g *SecretGenerator) FernetKey() (string, error) {
	raw, err := g.Key(KeySize)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

// readBytesSafe reads exactly len(buf) bytes with proper error handling.
func (g *SecretGenerator) readBytesSafe(buf []byte) error {
	n, err := io.ReadFull(g.reader, buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return ErrReaderFailed
	}
	return nil
}

// ReplaceInEnvFile generates a fresh key and replaces or adds it in a .env file.
func (g *SecretGenerator) ReplaceInEnvFile(filePath, key string) error {
	secret, err := g.FernetKey()
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	return replaceInEnvFile(filePath, key, secret)
}

// ReplaceInJSONFile generates a fresh key and replaces or adds it in a JSON file.
func (g *SecretGenerator) ReplaceInJSONFile(filePath, key string) error {
	secret, err := g.FernetKey()
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	return replaceInJSONFile(filePath, key, secret)
}

// ReplaceInYAMLFile generates a fresh key and replaces or adds it in a YAML file.
func (g *SecretGenerator) ReplaceInYAMLFile(filePath, key string) error {
	secret, err := g.FernetKey()
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	return replaceInYAMLFile(filePath, key, secret)
}

// replaceInEnvFile handles the actual .env file replacement.
func replaceInEnvFile(filePath, key, value string) error {
	content, err := os.ReadFile(filePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read file: %w", err)
	}

	lines := strings.Split(string(content), "\n")
	keyFound := false
	keyPattern := regexp.MustCompile(`^` + regexp.QuoteMeta(key) + `=`)

	for i, line := range lines {
		if keyPattern.MatchString(line) {
			lines[i] = fmt.Sprintf("%s=%s", key, value)
			keyFound = true
			break
		}
	}

	if !keyFound {
		lines = append(lines, fmt.Sprintf("%s=%s", key, value))
	}

	return os.WriteFile(filePath, []byte(strings.Join(lines, "\n")), 0600)
}

// replaceInJSONFile handles the actual JSON file replacement.
func replaceInJSONFile(filePath, key, value string) error {
	content, err := os.ReadFile(filePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var data map[string]any
	if len(content) > 0 {
		if err := json.Unmarshal(content, &data); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	} else {
		data = make(map[string]any)
	}

	data[key] = value

	updated, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return os.WriteFile(filePath, updated, 0600)
}

// replaceInYAMLFile handles the actual YAML file replacement.
func replaceInYAMLFile(filePath, key, value string) error {
	content, err := os.ReadFile(filePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var data map[string]any
	if len(content) > 0 {
		if err := yaml.Unmarshal(content, &data); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	} else {
		data = make(map[string]any)
	}

	data[key] = value

	updated, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	return os.WriteFile(filePath, updated, 0600)
}

// Global instance for package-level functions.
var defaultGenerator = NewSecretGenerator()

// GenerateKeyInEnvFile generates a key and replaces it in a .env file.
func GenerateKeyInEnvFile(filePath, key string) error {
	return defaultGenerator.ReplaceInEnvFile(filePath, key)
}

// GenerateKeyInJSONFile generates a key and replaces it in a JSON file.
func GenerateKeyInJSONFile(filePath, key string) error {
	return defaultGenerator.ReplaceInJSONFile(filePath, key)
}

// GenerateKeyInYAMLFile generates a key and replaces it in a YAML file.
func GenerateKeyInYAMLFile(filePath, key string) error {
	return defaultGenerator.ReplaceInYAMLFile(filePath, key)
}
