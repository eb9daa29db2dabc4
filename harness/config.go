package harness

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

const (
	ImplLockFree = "lockfree"
	ImplLocked   = "locked"
)

const (
	defaultKeysPerWorker = 5000
	defaultDuration      = time.Second
	defaultKeySpace      = 64
	defaultWritePercent  = 50
)

//go:embed config.schema.json
var configSchema string

const configSchemaURL = "https://sortedlist.local/harness/config.schema.json"

// Config describes one harness run.
type Config struct {
	Implementation string        `yaml:"implementation,omitempty" json:"implementation,omitempty"`
	Workers        int           `yaml:"workers,omitempty" json:"workers,omitempty"`
	KeysPerWorker  int64         `yaml:"keysPerWorker,omitempty" json:"keysPerWorker,omitempty"`
	Duration       time.Duration `yaml:"duration,omitempty" json:"duration,omitempty"`
	KeySpace       int64         `yaml:"keySpace,omitempty" json:"keySpace,omitempty"`
	WritePercent   int           `yaml:"writePercent,omitempty" json:"writePercent,omitempty"`
	Seed           uint64        `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// DefaultConfig returns a Config with every field populated.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Implementation == "" {
		c.Implementation = ImplLockFree
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.KeysPerWorker == 0 {
		c.KeysPerWorker = defaultKeysPerWorker
	}
	if c.Duration == 0 {
		c.Duration = defaultDuration
	}
	if c.KeySpace == 0 {
		c.KeySpace = defaultKeySpace
	}
	if c.WritePercent == 0 {
		c.WritePercent = defaultWritePercent
	}
}

// LoadConfig downloads a YAML config from URL (a local path or any scheme
// afs understands), validates it and fills in defaults.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download config %q: %w", URL, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config %q: %w", URL, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML data, checks it against the embedded schema and
// fills in defaults.
func ParseConfig(data []byte) (*Config, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func validateDocument(doc interface{}) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(configSchemaURL, strings.NewReader(configSchema)); err != nil {
		return fmt.Errorf("failed to load config schema: %w", err)
	}
	schema, err := compiler.Compile(configSchemaURL)
	if err != nil {
		return fmt.Errorf("failed to compile config schema: %w", err)
	}

	// Round-trip through JSON so the validator sees JSON types, numbers kept
	// as json.Number.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode config for validation: %w", err)
	}
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("failed to decode config for validation: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
