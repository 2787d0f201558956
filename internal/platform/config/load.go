package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "APP_"
	defaultConfigDir = "configs"
)

// Option adjusts where and how Load finds its inputs.
type Option func(*loader)

type loader struct {
	dir string
	k   *koanf.Koanf
}

// WithConfigDir points Load at a directory other than ./configs.
func WithConfigDir(dir string) Option {
	return func(l *loader) { l.dir = dir }
}

// Load assembles the ledger configuration for profile. Later layers win:
// built-in defaults, {dir}/base.yaml, {dir}/{profile}.yaml, then APP_*
// environment variables. The result is validated before it is returned.
//
// Env names resolve against keys that already exist, so underscores inside
// a field name survive:
//
//	APP_DISPATCH_HANDLER_TIMEOUT              -> dispatch.handler_timeout
//	APP_DISPATCH_CIRCUIT_BREAKER_MAX_FAILURES -> dispatch.circuit_breaker.max_failures
//	APP_CORRELATION_FALLBACK_TRACE_ID         -> correlation.fallback_trace_id
func Load(profile string, opts ...Option) (*Config, error) {
	if err := checkProfile(profile); err != nil {
		return nil, err
	}

	l := &loader{dir: defaultConfigDir, k: koanf.New(".")}
	for _, opt := range opts {
		opt(l)
	}

	steps := []func(string) error{l.seedDefaults, l.mergeYAML, l.mergeEnv}
	for _, step := range steps {
		if err := step(profile); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding ledger config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger config for profile %q: %w", profile, err)
	}
	return &cfg, nil
}

// seedDefaults registers every known key, which mergeEnv relies on.
func (l *loader) seedDefaults(string) error {
	for key, value := range defaults() {
		if err := l.k.Set(key, value); err != nil {
			return fmt.Errorf("seeding default %s: %w", key, err)
		}
	}
	return nil
}

func (l *loader) mergeYAML(profile string) error {
	for _, name := range []string{"base", profile} {
		path := filepath.Join(l.dir, name+".yaml")
		if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return nil
}

func (l *loader) mergeEnv(string) error {
	known := envKeys(l.k.Keys())
	provider := env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(name, value string) (string, any) {
			name = strings.ToLower(strings.TrimPrefix(name, envPrefix))
			if key, ok := known[name]; ok {
				return key, value
			}
			return strings.ReplaceAll(name, "_", "."), value
		},
	})
	if err := l.k.Load(provider, nil); err != nil {
		return fmt.Errorf("reading %s* environment: %w", envPrefix, err)
	}
	return nil
}

// checkProfile rejects names that could escape the config directory.
func checkProfile(profile string) error {
	switch {
	case strings.TrimSpace(profile) == "":
		return errors.New("config profile is empty")
	case strings.ContainsAny(profile, `/\`), strings.Contains(profile, ".."):
		return fmt.Errorf("config profile %q must be a bare file name", profile)
	}
	return nil
}

// envKeys maps "journal_initial_capacity" style names to their dotted keys.
func envKeys(keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		out[strings.ReplaceAll(key, ".", "_")] = key
	}
	return out
}
