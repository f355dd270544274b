package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = "imagepod.yaml"

// LoadFile reads and parses the deployment configuration from a YAML file.
// An empty path falls back to DefaultConfigFile.
func LoadFile(path string) (*Deployment, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a deployment document. Unknown keys are rejected so that
// typos in option names do not silently fall back to defaults.
func Parse(data []byte) (*Deployment, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Deployment
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	return &cfg, nil
}

// ApplyEnvironment fills credentials that are only accepted from the
// environment. The AWS region falls back to AWS_REGION when the file does
// not set one.
func ApplyEnvironment(cfg *Deployment) {
	cfg.Service.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.Service.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	if cfg.Service.AWSRegion == "" {
		cfg.Service.AWSRegion = os.Getenv("AWS_REGION")
	}
}

// ResolvePublicKey loads SSH.PublicKeyFile into SSH.PublicKey when only the
// file is configured.
func ResolvePublicKey(cfg *Deployment) error {
	if cfg.SSH.PublicKey != "" || cfg.SSH.PublicKeyFile == "" {
		return nil
	}

	// #nosec G304
	data, err := os.ReadFile(cfg.SSH.PublicKeyFile)
	if err != nil {
		return fmt.Errorf("failed to read ssh public key: %w", err)
	}
	cfg.SSH.PublicKey = strings.TrimSpace(string(data))
	return nil
}
