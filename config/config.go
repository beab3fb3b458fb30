package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/tendermint/relaylight/crypto/merkle"
	"github.com/tendermint/relaylight/libs/log"
	"github.com/tendermint/relaylight/types"
)

const (
	// DBBackendGoLevelDB stores state in a goleveldb database under DBDir.
	DBBackendGoLevelDB = "goleveldb"
	// DBBackendMemDB keeps state in memory. Nothing survives a restart.
	DBBackendMemDB = "memdb"
	// DBBackendPostgres stores state in the database at PostgresDSN.
	DBBackendPostgres = "postgres"
)

// NOTE: Most of the structs & relevant comments + the
// default configuration options were used to manually
// generate the config.toml. Please reflect any changes
// made here in the defaultConfigTemplate constant in
// config/toml.go
// NOTE: libs/cli must know to look in the config dir!
var (
	DefaultRelaylightDir = ".relaylight"
	defaultConfigDir     = "config"
	defaultDataDir       = "data"

	defaultConfigFileName = "config.toml"

	defaultConfigFilePath = filepath.Join(defaultConfigDir, defaultConfigFileName)
)

// Config defines the top level configuration for a relaylight node
type Config struct {
	// Top level options use an anonymous struct
	BaseConfig `mapstructure:",squash"`

	// Options for services
	Verifier        *VerifierConfig        `mapstructure:"verifier"`
	Scheduler       *SchedulerConfig       `mapstructure:"scheduler"`
	RPC             *RPCConfig             `mapstructure:"rpc"`
	Instrumentation *InstrumentationConfig `mapstructure:"instrumentation"`
}

// DefaultConfig returns a default configuration for a relaylight node
func DefaultConfig() *Config {
	return &Config{
		BaseConfig:      DefaultBaseConfig(),
		Verifier:        DefaultVerifierConfig(),
		Scheduler:       DefaultSchedulerConfig(),
		RPC:             DefaultRPCConfig(),
		Instrumentation: DefaultInstrumentationConfig(),
	}
}

// TestConfig returns a configuration that can be used for testing
func TestConfig() *Config {
	return &Config{
		BaseConfig:      TestBaseConfig(),
		Verifier:        DefaultVerifierConfig(),
		Scheduler:       TestSchedulerConfig(),
		RPC:             TestRPCConfig(),
		Instrumentation: DefaultInstrumentationConfig(),
	}
}

// SetRoot sets the RootDir for all Config structs
func (cfg *Config) SetRoot(root string) *Config {
	cfg.BaseConfig.RootDir = root
	return cfg
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *Config) ValidateBasic() error {
	if err := cfg.BaseConfig.ValidateBasic(); err != nil {
		return err
	}
	if err := cfg.Verifier.ValidateBasic(); err != nil {
		return fmt.Errorf("error in [verifier] section: %w", err)
	}
	if err := cfg.Scheduler.ValidateBasic(); err != nil {
		return fmt.Errorf("error in [scheduler] section: %w", err)
	}
	if err := cfg.RPC.ValidateBasic(); err != nil {
		return fmt.Errorf("error in [rpc] section: %w", err)
	}
	if err := cfg.Instrumentation.ValidateBasic(); err != nil {
		return fmt.Errorf("error in [instrumentation] section: %w", err)
	}
	return nil
}

//-----------------------------------------------------------------------------
// BaseConfig

// BaseConfig defines the base configuration for a relaylight node
type BaseConfig struct {
	// The root directory for all data.
	// This should be set in viper so it can unmarshal into this struct
	RootDir string `mapstructure:"home"`

	// Output level for logging
	LogLevel string `mapstructure:"log-level"`

	// Output format: 'plain' (colored text) or 'json'
	LogFormat string `mapstructure:"log-format"`

	// Database backend: goleveldb | memdb | postgres
	DBBackend string `mapstructure:"db-backend"`

	// Database directory, for goleveldb
	DBPath string `mapstructure:"db-dir"`

	// Connection string, for postgres
	PostgresDSN string `mapstructure:"postgres-dsn"`

	// Trigger identities run by the start command. Empty means every
	// trigger found in the triggers store.
	Triggers []string `mapstructure:"triggers"`
}

// DefaultBaseConfig returns a default base configuration for a relaylight node
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		LogLevel:  log.LogLevelInfo,
		LogFormat: log.LogFormatPlain,
		DBBackend: DBBackendGoLevelDB,
		DBPath:    defaultDataDir,
	}
}

// TestBaseConfig returns a base configuration for testing a relaylight node
func TestBaseConfig() BaseConfig {
	cfg := DefaultBaseConfig()
	cfg.LogLevel = log.LogLevelDebug
	cfg.DBBackend = DBBackendMemDB
	return cfg
}

// DBDir returns the full path to the database directory
func (cfg BaseConfig) DBDir() string {
	return rootify(cfg.DBPath, cfg.RootDir)
}

// ConfigFile returns the full path to the config.toml file
func (cfg BaseConfig) ConfigFile() string {
	return rootify(defaultConfigFilePath, cfg.RootDir)
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg BaseConfig) ValidateBasic() error {
	switch cfg.LogFormat {
	case log.LogFormatPlain, log.LogFormatText, log.LogFormatJSON:
	default:
		return errors.New("unknown log-format (must be 'plain' or 'json')")
	}
	switch cfg.LogLevel {
	case log.LogLevelDebug, log.LogLevelInfo, log.LogLevelWarn, log.LogLevelError:
	default:
		return fmt.Errorf("unknown log-level %q", cfg.LogLevel)
	}
	switch cfg.DBBackend {
	case DBBackendGoLevelDB, DBBackendMemDB:
	case DBBackendPostgres:
		if cfg.PostgresDSN == "" {
			return errors.New("postgres-dsn is required with the postgres backend")
		}
	default:
		return fmt.Errorf("unknown db-backend %q", cfg.DBBackend)
	}
	seen := make(map[string]bool, len(cfg.Triggers))
	for _, id := range cfg.Triggers {
		if id == "" {
			return errors.New("empty trigger id")
		}
		if seen[id] {
			return fmt.Errorf("trigger %q listed twice", id)
		}
		seen[id] = true
	}
	return nil
}

//-----------------------------------------------------------------------------
// VerifierConfig

// VerifierConfig defines how relay messages are checked.
type VerifierConfig struct {
	// Longest accepted transaction inclusion proof.
	MaxProofDepth int `mapstructure:"max-proof-depth"`

	// Number of validator signatures a block needs:
	// floor-thirds (floor(n/3)*2) or supermajority (floor(2n/3)+1).
	QuorumPolicy string `mapstructure:"quorum-policy"`
}

// DefaultVerifierConfig returns the settings matching the monitored ledger.
func DefaultVerifierConfig() *VerifierConfig {
	return &VerifierConfig{
		MaxProofDepth: merkle.DefaultMaxDepth,
		QuorumPolicy:  types.QuorumPolicyFloorThirds,
	}
}

// Policy returns the configured quorum policy.
func (cfg *VerifierConfig) Policy() (types.QuorumPolicy, error) {
	return types.QuorumPolicyFromString(cfg.QuorumPolicy)
}

// ValidateBasic performs basic validation.
func (cfg *VerifierConfig) ValidateBasic() error {
	if cfg.MaxProofDepth < 0 {
		return errors.New("max-proof-depth can't be negative")
	}
	if cfg.MaxProofDepth > 64 {
		return errors.New("max-proof-depth can't be greater than 64")
	}
	_, err := cfg.Policy()
	return err
}

//-----------------------------------------------------------------------------
// SchedulerConfig

// SchedulerConfig defines when triggers are invoked by the start command.
type SchedulerConfig struct {
	// Time between two invocations of each trigger.
	Interval time.Duration `mapstructure:"interval"`
}

// DefaultSchedulerConfig returns a default scheduler configuration.
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		Interval: 5 * time.Second,
	}
}

// TestSchedulerConfig returns a scheduler configuration for testing.
func TestSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		Interval: 10 * time.Millisecond,
	}
}

// ValidateBasic performs basic validation.
func (cfg *SchedulerConfig) ValidateBasic() error {
	if cfg.Interval <= 0 {
		return errors.New("interval must be positive")
	}
	return nil
}

//-----------------------------------------------------------------------------
// RPCConfig

// RPCConfig defines the configuration options for the relay inbox server.
type RPCConfig struct {
	// TCP address to listen on for relay submissions.
	ListenAddress string `mapstructure:"laddr"`

	// A list of origins a cross-domain request can be executed from.
	// If the special '*' value is present in the list, all origins will be allowed.
	// An origin may contain a wildcard (*) to replace 0 or more characters (i.e.: http://*.domain.com).
	// Only one wildcard can be used per origin.
	CORSAllowedOrigins []string `mapstructure:"cors-allowed-origins"`

	// Largest accepted relay message, in bytes.
	MaxBodyBytes int64 `mapstructure:"max-body-bytes"`
}

// DefaultRPCConfig returns a default configuration for the RPC server
func DefaultRPCConfig() *RPCConfig {
	return &RPCConfig{
		ListenAddress:      "tcp://127.0.0.1:26680",
		CORSAllowedOrigins: []string{},
		MaxBodyBytes:       1000000, // 1MB
	}
}

// TestRPCConfig returns a configuration for testing the RPC server
func TestRPCConfig() *RPCConfig {
	cfg := DefaultRPCConfig()
	cfg.ListenAddress = "tcp://127.0.0.1:0"
	return cfg
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *RPCConfig) ValidateBasic() error {
	if cfg.MaxBodyBytes <= 0 {
		return errors.New("max-body-bytes must be positive")
	}
	if cfg.ListenAddress == "" {
		return nil
	}
	u, err := url.Parse(cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("invalid laddr: %w", err)
	}
	if u.Scheme != "tcp" || u.Host == "" {
		return fmt.Errorf("laddr must look like tcp://host:port, got %q", cfg.ListenAddress)
	}
	return nil
}

// IsCorsEnabled returns true if cross-origin resource sharing is enabled.
func (cfg *RPCConfig) IsCorsEnabled() bool {
	return len(cfg.CORSAllowedOrigins) != 0
}

// Host returns the host:port part of ListenAddress.
func (cfg *RPCConfig) Host() string {
	u, err := url.Parse(cfg.ListenAddress)
	if err != nil {
		return ""
	}
	return u.Host
}

//-----------------------------------------------------------------------------
// InstrumentationConfig

// InstrumentationConfig defines the configuration for metrics reporting.
type InstrumentationConfig struct {
	// When true, Prometheus metrics are served under /metrics on the RPC
	// listen address.
	Prometheus bool `mapstructure:"prometheus"`

	// Instrumentation namespace.
	Namespace string `mapstructure:"namespace"`
}

// DefaultInstrumentationConfig returns a default configuration for metrics
// reporting.
func DefaultInstrumentationConfig() *InstrumentationConfig {
	return &InstrumentationConfig{
		Prometheus: false,
		Namespace:  "relaylight",
	}
}

// ValidateBasic performs basic validation.
func (cfg *InstrumentationConfig) ValidateBasic() error {
	if cfg.Prometheus && cfg.Namespace == "" {
		return errors.New("namespace is required when prometheus is enabled")
	}
	return nil
}

//-----------------------------------------------------------------------------
// Utils

// helper function to make config creation independent of root dir
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
