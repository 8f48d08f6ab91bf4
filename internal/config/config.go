// Package config handles the parsing and validation of application configuration
// from command-line arguments, environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iam-dane/check-dayz-server/internal/address"
	"github.com/iam-dane/check-dayz-server/internal/directory"
	"github.com/iam-dane/check-dayz-server/internal/logger"
	"github.com/iam-dane/check-dayz-server/internal/table"
	"github.com/iam-dane/check-dayz-server/internal/vars"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

var (
	// ErrMissingCredential is returned when no Steam Web API key was supplied.
	ErrMissingCredential = errors.New("steam API key not found")

	// ErrMissingAddress is returned when the IP:PORT argument is absent.
	ErrMissingAddress = errors.New("required argument `IP:PORT` was not provided")

	// ErrInvalidConfig wraps values that parse but cannot be used.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrVersion is returned by Load when only the build info was requested.
	ErrVersion = errors.New("version requested")
)

// MissingCredentialHelp tells the operator how to provide the API key.
const MissingCredentialHelp = "Steam API key not found. " +
	"Please specify Steam API key as an environment variable (STEAM_API_KEY) " +
	"or as a CLI argument (--steam-api-key)."

// Config represents the complete application flags configuration.
type Config struct {
	// betteralign:ignore

	Monitor Monitor       `group:"Monitor Options" env-namespace:"CHECK_DAYZ"`
	Steam   Steam         `group:"Steam Web API Options" namespace:"steam" env-namespace:"STEAM"`
	A2S     A2S           `group:"A2S Options" namespace:"a2s" env-namespace:"CHECK_DAYZ_A2S"`
	GeoIP   GeoIP         `group:"GeoIP Options" namespace:"geoip" env-namespace:"CHECK_DAYZ_GEOIP"`
	Logger  logger.Config `group:"Logger Options" namespace:"log" env-namespace:"CHECK_DAYZ_LOG"`

	Version bool `short:"v" long:"version" description:"Print version and build info"`

	Args struct {
		Address address.Endpoint `positional-arg-name:"IP:PORT" description:"Game address of the server, e.g. 85.190.157.113:10200"`
	} `positional-args:"yes"`
}

// Monitor holds the poll loop and display configuration.
type Monitor struct {
	// betteralign:ignore

	Interval    Seconds     `short:"i" long:"interval" env:"INTERVAL" description:"Poll interval in seconds (or a duration like 30s)" default:"10"`
	Cooldown    Seconds     `long:"cooldown" env:"COOLDOWN" description:"Wait after a query timeout before retrying" default:"60"`
	Players     bool        `short:"p" long:"players" env:"PLAYERS" description:"Show the session time of every connected player"`
	TableFormat table.Style `short:"f" long:"table-format" env:"TABLE_FORMAT" description:"Table style" default:"simple" choice:"plain" choice:"simple" choice:"github" choice:"grid" choice:"fancy_grid" choice:"pipe" choice:"orgtbl" choice:"presto" choice:"pretty" choice:"psql" choice:"rst"`
	NoClear     bool        `long:"no-clear" env:"NO_CLEAR" description:"Do not clear the screen between refreshes"`
}

// Steam holds the Steam Web API directory lookup configuration.
type Steam struct {
	// betteralign:ignore

	APIKey  string        `long:"api-key" env:"API_KEY" description:"Steam Web API key" default-mask:"-"`
	URL     string        `long:"url" env:"URL" description:"Steam Web API base URL" default:"https://api.steampowered.com"`
	GameDir string        `long:"gamedir" env:"GAMEDIR" description:"Game directory filter, empty to match any game" default:"dayz"`
	Timeout time.Duration `long:"timeout" env:"TIMEOUT" description:"HTTP request timeout" default:"10s"`
}

// A2S holds Source Query protocol configuration.
type A2S struct {
	// betteralign:ignore

	Timeout    time.Duration `long:"timeout" env:"TIMEOUT" description:"Query timeout" default:"3s"`
	BufferSize uint16        `long:"buffer-size" env:"BUFFER_SIZE" description:"Response body buffer size" default:"1400"`
	MinGap     time.Duration `long:"min-gap" env:"MIN_GAP" description:"Minimum wall-clock time between two polls, only matters when the interval is shorter; 0 to disable" default:"1s"`
}

// GeoIP holds MaxMind GeoIP configuration.
type GeoIP struct {
	// betteralign:ignore

	Path     string        `long:"path" env:"PATH" description:"Path to MMDB file, empty disables country lookup"`
	URL      string        `long:"url" env:"URL" description:"URL to download MMDB" default:"https://git.io/GeoLite2-Country.mmdb"`
	Interval time.Duration `long:"interval" env:"INTERVAL" description:"Update interval check" default:"24h"`
}

// Seconds is a duration given either as whole seconds ("10") or as a Go duration ("1m30s").
type Seconds time.Duration

// UnmarshalFlag implements flags.Unmarshaler.
func (s *Seconds) UnmarshalFlag(value string) error {
	value = strings.TrimSpace(value)

	if n, err := strconv.ParseUint(value, 10, 32); err == nil {
		*s = Seconds(time.Duration(n) * time.Second)
		return nil
	}

	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return fmt.Errorf("invalid duration %q: expected seconds or a duration like 30s", value)
	}
	*s = Seconds(d)

	return nil
}

// Duration returns s as a time.Duration.
func (s Seconds) Duration() time.Duration {
	return time.Duration(s)
}

// Parse reads the configuration from flags and environment variables.
// It terminates the application if the configuration is invalid or if the help flag is invoked.
func Parse() *Config {
	cfg, err := Load(os.Args[1:])
	if err == nil {
		return cfg
	}

	var flagsErr *flags.Error
	switch {
	case errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp:
		os.Exit(0)
	case errors.Is(err, ErrVersion):
		vars.Print()
		os.Exit(0)
	case errors.Is(err, ErrMissingCredential):
		fmt.Fprintln(os.Stderr, MissingCredentialHelp)
	case errors.Is(err, ErrMissingAddress), errors.Is(err, ErrInvalidConfig):
		fmt.Fprintln(os.Stderr, err)
	default:
		// parser errors are already printed
	}

	os.Exit(1)
	return nil
}

// Load parses args after loading .env from the working directory.
// Variables already present in the environment win over the file.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: load .env: %w", ErrInvalidConfig, err)
	}

	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if cfg.Version {
		return &cfg, ErrVersion
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the constraints go-flags cannot express.
// The credential is checked before anything touches the network.
func (c *Config) Validate() error {
	if !c.Args.Address.IsValid() {
		return ErrMissingAddress
	}

	if strings.TrimSpace(c.Steam.APIKey) == "" {
		return ErrMissingCredential
	}

	if c.Monitor.Interval.Duration() <= 0 {
		return fmt.Errorf("%w: interval must be greater than zero", ErrInvalidConfig)
	}

	if c.Monitor.Cooldown.Duration() <= 0 {
		return fmt.Errorf("%w: cooldown must be greater than zero", ErrInvalidConfig)
	}

	if c.A2S.Timeout <= 0 {
		return fmt.Errorf("%w: a2s timeout must be greater than zero", ErrInvalidConfig)
	}

	if c.Steam.URL == "" {
		c.Steam.URL = directory.DefaultURL
	}

	return nil
}
