package settings

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/confmgrlabs/goadapter/internal/document"
)

// EnvSettingsPath names the environment variable that points at the
// settings file when the --settings flag is not given.
const EnvSettingsPath = "ADAPTER_SETTINGS"

// EnvTraceLevel overrides the configured log level. It takes precedence
// over the settings file so orchestrators can raise verbosity per run.
const EnvTraceLevel = "DSC_TRACE_LEVEL"

// Settings holds adapter-wide configuration loaded from an optional YAML
// file. All fields have defaults; a missing file is not an error.
type Settings struct {
	// LogLevel is a zerolog level name (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level" validate:"omitempty,log_level"`
	// LogFormat selects stderr rendering: json, console, or auto
	// (console when stderr is a terminal).
	LogFormat string `yaml:"log_format" validate:"omitempty,oneof=auto json console"`
	// DiffAbsentKeys controls how Test treats properties missing from the
	// desired document: ignore (unconstrained) or expect_absent.
	DiffAbsentKeys string `yaml:"diff_absent_keys" validate:"omitempty,oneof=ignore expect_absent"`
}

// Default returns the settings used when no file is configured.
func Default() *Settings {
	return &Settings{
		LogLevel:       "info",
		LogFormat:      "auto",
		DiffAbsentKeys: string(document.AbsentIgnore),
	}
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	logLevels = map[string]struct{}{
		"trace": {}, "debug": {}, "info": {}, "warn": {}, "error": {},
	}
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("log_level", func(fl validator.FieldLevel) bool {
			_, ok := logLevels[strings.ToLower(fl.Field().String())]
			return ok
		})

		validateInst = v
	})

	return validateInst
}

// Load reads and validates a settings file. Fields omitted from the file
// keep their defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", path, err)
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve determines the effective settings: the explicit path wins, then
// the ADAPTER_SETTINGS environment variable, then defaults. The level
// override from DSC_TRACE_LEVEL is applied last.
func Resolve(flagPath string) (*Settings, error) {
	path := strings.TrimSpace(flagPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvSettingsPath))
	}

	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if level := strings.TrimSpace(os.Getenv(EnvTraceLevel)); level != "" {
		lowered := strings.ToLower(level)
		if _, ok := logLevels[lowered]; !ok {
			return nil, fmt.Errorf("invalid %s value %q", EnvTraceLevel, level)
		}
		cfg.LogLevel = lowered
	}

	return cfg, nil
}

// DiffPolicy converts the configured absent-key handling into the document
// package's policy type.
func (s *Settings) DiffPolicy() document.AbsentKeyPolicy {
	if s == nil || s.DiffAbsentKeys == "" {
		return document.AbsentIgnore
	}
	return document.AbsentKeyPolicy(s.DiffAbsentKeys)
}
