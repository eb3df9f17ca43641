package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jeremywohl/flatten"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/zabuzafr/lparsync/internal/model"
)

var (
	defaultCommandTimeout = 30 * time.Second
	defaultRequestTimeout = 15 * time.Second
)

// Configuration holds application configuration read from a YAML file or set
// by env variables, with command line flags taking precedence.
// nolint:govet // prefer readability over field alignment optimization for this case.
type Configuration struct {
	// LogLevel is the app verbose logging level.
	// one of - info, debug, trace
	LogLevel string `mapstructure:"log_level"`

	// Concurrency bounds the per-system discovery and per-host reconcile
	// worker pools.
	Concurrency int `mapstructure:"concurrency"`

	// ManagedSystem limits discovery to a single managed system.
	ManagedSystem string `mapstructure:"managed_system"`

	// ExcludedPartitions are LPAR names to leave out of the inventory
	// entirely.
	ExcludedPartitions []string `mapstructure:"excluded_partitions"`

	// HostPrefix is prepended to an LPAR name to build its registry host
	// name.
	HostPrefix string `mapstructure:"host_prefix"`

	// Apply performs registry mutations; without it the run is a dry run.
	Apply bool `mapstructure:"apply"`

	// DumpInventory emits the discovered inventory as JSON on stdout.
	DumpInventory bool `mapstructure:"dump_inventory"`

	// HMCOptions defines the HMC command channel parameters.
	HMCOptions *HMCOptions `mapstructure:"hmc"`

	// ArrayOptions defines the host registry client parameters.
	ArrayOptions *ArrayOptions `mapstructure:"array"`

	EnableProfiling bool `mapstructure:"enable_profiling"`
}

// HMCOptions defines configuration for the HMC command channel.
type HMCOptions struct {
	Endpoint       string        `mapstructure:"endpoint"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
}

// ArrayOptions defines configuration for the host registry client.
type ArrayOptions struct {
	Endpoint       string        `mapstructure:"endpoint"`
	APIToken       string        `mapstructure:"api_token"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	VerifySSL      bool          `mapstructure:"verify_ssl"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// New creates an empty configuration struct.
func New() *Configuration {
	config := &Configuration{}

	// these are initialized here so viper can read in configuration from env vars
	// once https://github.com/spf13/viper/pull/1429 is merged, this can go.
	config.HMCOptions = &HMCOptions{CommandTimeout: defaultCommandTimeout}
	config.ArrayOptions = &ArrayOptions{VerifySSL: true, RequestTimeout: defaultRequestTimeout}

	return config
}

func (c *Configuration) AsLogFields() []any {
	return []any{
		"logLevel", c.LogLevel,
		"concurrency", c.Concurrency,
		"hmc", c.HMCOptions.Endpoint,
		"managedSystem", c.ManagedSystem,
		"excluded", strings.Join(c.ExcludedPartitions, ","),
		"array", c.ArrayOptions.Endpoint,
		"hostPrefix", c.HostPrefix,
		"apply", c.Apply,
		"enableProfiling", c.EnableProfiling,
	}
}

// LoadArgs applies command line flag values over the configuration.
func (c *Configuration) LoadArgs(args *model.Args) {
	if args.LogLevel != "" {
		c.LogLevel = args.LogLevel
	}

	if args.EnableProfiling {
		c.EnableProfiling = true
	}

	if args.HMCEndpoint != "" {
		c.HMCOptions.Endpoint = args.HMCEndpoint
	}

	if args.HMCUser != "" {
		c.HMCOptions.User = args.HMCUser
	}

	if args.HMCPassword != "" {
		c.HMCOptions.Password = args.HMCPassword
	}

	if args.ManagedSystem != "" {
		c.ManagedSystem = args.ManagedSystem
	}

	if args.ExcludeLPARs != "" {
		c.ExcludedPartitions = SplitExcludeList(args.ExcludeLPARs)
	}

	if args.ArrayEndpoint != "" {
		c.ArrayOptions.Endpoint = args.ArrayEndpoint
	}

	if args.ArrayAPIToken != "" {
		c.ArrayOptions.APIToken = args.ArrayAPIToken
	}

	if args.ArrayUser != "" {
		c.ArrayOptions.User = args.ArrayUser
	}

	if args.ArrayPassword != "" {
		c.ArrayOptions.Password = args.ArrayPassword
	}

	if args.HostPrefix != "" {
		c.HostPrefix = args.HostPrefix
	}

	if args.NoVerifySSL {
		c.ArrayOptions.VerifySSL = false
	}

	if args.Apply {
		c.Apply = true
	}

	if args.DumpInventory {
		c.DumpInventory = true
	}

	if args.Concurrency != 0 {
		c.Concurrency = args.Concurrency
	}
}

// Load the application configuration.
// Reads in the configFile when available and overrides from environment variables.
func Load(args *model.Args) (*Configuration, error) {
	viperConfig := viper.New()
	viperConfig.SetConfigType("yaml")
	viperConfig.SetEnvPrefix(model.AppName)
	viperConfig.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperConfig.AutomaticEnv()

	if args.ConfigFile != "" {
		fh, err := os.Open(args.ConfigFile)
		if err != nil {
			return nil, errors.Wrap(model.ErrConfig, err.Error())
		}

		if err = viperConfig.ReadConfig(fh); err != nil {
			return nil, errors.Wrap(model.ErrConfig, "ReadConfig error: "+err.Error())
		}
	}

	config := New()

	if err := config.envBindVars(viperConfig); err != nil {
		return nil, errors.Wrap(model.ErrConfig, "env var bind error: "+err.Error())
	}

	if err := viperConfig.Unmarshal(config); err != nil {
		return nil, errors.Wrap(model.ErrConfig, "Unmarshal error: "+err.Error())
	}

	config.LoadArgs(args)

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SplitExcludeList parses the comma-separated LPAR exclusion list, trimming
// whitespace and dropping empty tokens.
func SplitExcludeList(csv string) []string {
	var names []string

	for _, tok := range strings.Split(csv, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			names = append(names, tok)
		}
	}

	return names
}

// envBindVars binds environment variables to the struct
// without a configuration file being unmarshalled,
// this is a workaround for a viper bug,
//
// This can be replaced by the solution in https://github.com/spf13/viper/pull/1429
// once that PR is merged.
func (c *Configuration) envBindVars(viperConfig *viper.Viper) error {
	envKeysMap := map[string]interface{}{}
	if err := mapstructure.Decode(c, &envKeysMap); err != nil {
		return err
	}

	// Flatten nested conf map
	flat, err := flatten.Flatten(envKeysMap, "", flatten.DotStyle)
	if err != nil {
		return errors.Wrap(err, "Unable to flatten configuration")
	}

	for k := range flat {
		if err := viperConfig.BindEnv(k); err != nil {
			return errors.Wrap(model.ErrConfig, "env var bind error: "+err.Error())
		}
	}

	return nil
}

// nolint:gocyclo // parameter validation is cyclomatic
func (c *Configuration) validate() error {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.Concurrency == 0 {
		c.Concurrency = 1
	}

	if c.HMCOptions == nil || c.HMCOptions.Endpoint == "" {
		return errors.Wrap(model.ErrConfig, "hmc.endpoint not defined")
	}

	if c.HMCOptions.User == "" {
		return errors.Wrap(model.ErrConfig, "hmc.user not defined")
	}

	if c.HMCOptions.Password == "" {
		return errors.Wrap(model.ErrConfig, "hmc.password not defined")
	}

	if c.HMCOptions.CommandTimeout == 0 {
		c.HMCOptions.CommandTimeout = defaultCommandTimeout
	}

	if c.ArrayOptions == nil {
		c.ArrayOptions = &ArrayOptions{VerifySSL: true}
	}

	if c.ArrayOptions.RequestTimeout == 0 {
		c.ArrayOptions.RequestTimeout = defaultRequestTimeout
	}

	if c.ArrayOptions.Endpoint != "" {
		if _, err := url.Parse("https://" + c.ArrayOptions.Endpoint); err != nil {
			return errors.Wrap(model.ErrConfig, "array endpoint URL error: "+err.Error())
		}
	}

	// An apply run mutates the registry, so a reachable array with a
	// usable credential is mandatory. A dry run may omit both.
	if c.Apply {
		if c.ArrayOptions.Endpoint == "" {
			return errors.Wrap(model.ErrConfig, "array.endpoint not defined")
		}

		if _, err := c.ArrayOptions.Credential(); err != nil {
			return err
		}
	}

	return nil
}
