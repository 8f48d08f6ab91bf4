package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iam-dane/check-dayz-server/internal/table"
	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with the credential unset.
func isolate(t *testing.T) {
	t.Helper()

	t.Chdir(t.TempDir())
	t.Setenv("STEAM_API_KEY", "")
	require.NoError(t, os.Unsetenv("STEAM_API_KEY"))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load([]string{"--steam-api-key", "secret", "85.190.157.113:10200"})
	require.NoError(t, err)

	assert.Equal(t, "85.190.157.113:10200", cfg.Args.Address.String())
	assert.Equal(t, 10*time.Second, cfg.Monitor.Interval.Duration())
	assert.Equal(t, 60*time.Second, cfg.Monitor.Cooldown.Duration())
	assert.False(t, cfg.Monitor.Players)
	assert.False(t, cfg.Monitor.NoClear)
	assert.Equal(t, table.Simple, cfg.Monitor.TableFormat)

	assert.Equal(t, "secret", cfg.Steam.APIKey)
	assert.Equal(t, "https://api.steampowered.com", cfg.Steam.URL)
	assert.Equal(t, "dayz", cfg.Steam.GameDir)
	assert.Equal(t, 10*time.Second, cfg.Steam.Timeout)

	assert.Equal(t, 3*time.Second, cfg.A2S.Timeout)
	assert.Equal(t, uint16(1400), cfg.A2S.BufferSize)
	assert.Equal(t, time.Second, cfg.A2S.MinGap)

	assert.Empty(t, cfg.GeoIP.Path)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "stderr", cfg.Logger.Output)
}

func TestLoad_Flags(t *testing.T) {
	isolate(t)

	cfg, err := Load([]string{
		"-i", "30", "-p", "-f", "psql", "--no-clear",
		"--steam-api-key", "secret",
		"--a2s-timeout", "5s",
		"85.190.157.113:10200",
	})
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Monitor.Interval.Duration())
	assert.True(t, cfg.Monitor.Players)
	assert.True(t, cfg.Monitor.NoClear)
	assert.Equal(t, table.PSQL, cfg.Monitor.TableFormat)
	assert.Equal(t, 5*time.Second, cfg.A2S.Timeout)
}

func TestLoad_APIKeyFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("STEAM_API_KEY", "from-env")

	cfg, err := Load([]string{"85.190.157.113:10200"})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Steam.APIKey)
}

func TestLoad_APIKeyFromDotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("STEAM_API_KEY=from-file\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("STEAM_API_KEY") })

	cfg, err := Load([]string{"85.190.157.113:10200"})
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Steam.APIKey)
}

func TestLoad_EnvironmentWinsOverDotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(".", ".env"), []byte("STEAM_API_KEY=from-file\n"), 0600))
	t.Setenv("STEAM_API_KEY", "from-env")

	cfg, err := Load([]string{"85.190.157.113:10200"})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Steam.APIKey)
}

func TestLoad_MissingCredential(t *testing.T) {
	isolate(t)

	_, err := Load([]string{"85.190.157.113:10200"})
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestLoad_MissingAddress(t *testing.T) {
	isolate(t)

	_, err := Load([]string{"--steam-api-key", "secret"})
	assert.ErrorIs(t, err, ErrMissingAddress)
}

func TestLoad_InvalidAddress(t *testing.T) {
	isolate(t)

	_, err := Load([]string{"--steam-api-key", "secret", "not-an-address"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingAddress)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_InvalidTableFormat(t *testing.T) {
	isolate(t)

	_, err := Load([]string{"--steam-api-key", "secret", "-f", "markdown", "85.190.157.113:10200"})
	require.Error(t, err)

	var flagsErr *flags.Error
	require.True(t, errors.As(err, &flagsErr))
	assert.Equal(t, flags.ErrInvalidChoice, flagsErr.Type)
}

func TestLoad_Version(t *testing.T) {
	isolate(t)

	cfg, err := Load([]string{"--version"})
	assert.ErrorIs(t, err, ErrVersion)
	require.NotNil(t, cfg)
	assert.True(t, cfg.Version)
}

func TestLoad_ZeroInterval(t *testing.T) {
	isolate(t)

	_, err := Load([]string{"--steam-api-key", "secret", "-i", "0", "85.190.157.113:10200"})
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "interval")
}

func TestLoad_ZeroCooldown(t *testing.T) {
	isolate(t)

	_, err := Load([]string{"--steam-api-key", "secret", "--cooldown", "0", "85.190.157.113:10200"})
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "cooldown")
}

func TestSeconds_UnmarshalFlag(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"10", 10 * time.Second},
		{" 5 ", 5 * time.Second},
		{"0", 0},
		{"30s", 30 * time.Second},
		{"1m30s", 90 * time.Second},
		{"250ms", 250 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var s Seconds
			require.NoError(t, s.UnmarshalFlag(tt.in))
			assert.Equal(t, tt.want, s.Duration())
		})
	}

	for _, bad := range []string{"", "ten", "-5", "-5s", "1.5.2"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			var s Seconds
			assert.Error(t, s.UnmarshalFlag(bad))
		})
	}
}
