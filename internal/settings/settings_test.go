package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/confmgrlabs/goadapter/internal/document"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "adapter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "auto", cfg.LogFormat)
	require.Equal(t, document.AbsentIgnore, cfg.DiffPolicy())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeSettings(t, `
log_level: debug
log_format: json
diff_absent_keys: expect_absent
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, document.AbsentExpect, cfg.DiffPolicy())
}

func TestLoadKeepsDefaultsForOmittedFields(t *testing.T) {
	path := writeSettings(t, `log_level: warn`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, "auto", cfg.LogFormat)
	require.Equal(t, string(document.AbsentIgnore), cfg.DiffAbsentKeys)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad level", `log_level: loud`},
		{"bad format", `log_format: xml`},
		{"bad diff policy", `diff_absent_keys: maybe`},
		{"malformed yaml", `log_level: [`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSettings(t, tc.body)
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestResolvePrecedence(t *testing.T) {
	flagPath := writeSettings(t, `log_level: debug`)
	envPath := writeSettings(t, `log_level: warn`)

	t.Setenv(EnvSettingsPath, envPath)
	t.Setenv(EnvTraceLevel, "")

	cfg, err := Resolve(flagPath)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel, "flag path wins over the environment")

	cfg, err = Resolve("")
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.LogLevel, "environment path wins over defaults")
}

func TestResolveDefaultsWithoutFile(t *testing.T) {
	t.Setenv(EnvSettingsPath, "")
	t.Setenv(EnvTraceLevel, "")

	cfg, err := Resolve("")
	require.NoError(t, err)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestResolveTraceLevelOverride(t *testing.T) {
	t.Setenv(EnvTraceLevel, "TRACE")

	cfg, err := Resolve("")
	require.NoError(t, err)
	require.Equal(t, "trace", cfg.LogLevel)
}

func TestResolveRejectsBadTraceLevel(t *testing.T) {
	t.Setenv(EnvTraceLevel, "shout")

	_, err := Resolve("")
	require.Error(t, err)
}
