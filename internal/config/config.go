// Package config loads the settings of camp-builder from defaults, an optional config file,
// a .env file and CAMP_BUILDER_* environment variables.
package config

import (
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/askiada/camp-builder/pkg/pipeline"
	"github.com/askiada/camp-builder/pkg/pipeline/model"
)

// EnvPrefix prefixes the environment variables overriding a key, CAMP_BUILDER_LOG_LEVEL for log.level.
const EnvPrefix = "CAMP_BUILDER"

// Keys.
const (
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	KeyHTTPAddr        = "http.addr"
	KeyHTTPSizeLimit   = "http.request_size_limit"
	KeyMCPEnabled      = "mcp.enabled"
	KeyIDSource        = "ids.source"
	KeyStepVersionBase = "ids.step_version_base"
	KeyHoursInterval   = "orchestration.hours_interval"
)

const (
	sequenceIDPrefix        = "step"
	defaultLogLevel         = "info"
	defaultLogFormat        = "json"
	defaultIDSourceName     = "uuid"
	defaultRequestSizeLimit = 1 << 20
)

// ErrInvalidConfig is returned when a setting is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Log configures the logger.
type Log struct {
	Level  string `mapstructure:"level"  validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// HTTP configures the HTTP transport. An empty address disables it.
type HTTP struct {
	Addr             string `mapstructure:"addr"`
	RequestSizeLimit int64  `mapstructure:"request_size_limit" validate:"min=1"`
}

// MCP configures the stdio transport.
type MCP struct {
	Enabled bool `mapstructure:"enabled"`
}

// IDs configures the identifiers of assembled pipelines.
type IDs struct {
	Source          string `mapstructure:"source"            validate:"oneof=uuid xid sequence"`
	StepVersionBase int    `mapstructure:"step_version_base" validate:"min=0"`
}

// Orchestration configures the assembled orchestration.
type Orchestration struct {
	HoursInterval int `mapstructure:"hours_interval" validate:"min=1"`
}

// Config holds every setting.
type Config struct {
	Log           Log           `mapstructure:"log"`
	HTTP          HTTP          `mapstructure:"http"`
	MCP           MCP           `mapstructure:"mcp"`
	IDs           IDs           `mapstructure:"ids"`
	Orchestration Orchestration `mapstructure:"orchestration"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyLogFormat, defaultLogFormat)
	v.SetDefault(KeyHTTPAddr, "")
	v.SetDefault(KeyHTTPSizeLimit, defaultRequestSizeLimit)
	v.SetDefault(KeyMCPEnabled, true)
	v.SetDefault(KeyIDSource, defaultIDSourceName)
	v.SetDefault(KeyStepVersionBase, model.DefaultStepVersionBase)
	v.SetDefault(KeyHoursInterval, model.DefaultHoursInterval)
}

// Load reads the settings into v. configFile is optional.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)

		err := v.ReadInConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read config file %s", configFile)
		}
	}

	cfg := &Config{}

	err := v.Unmarshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode configuration")
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDotEnv exports the variables of the given .env files, .env by default. Missing files are
// skipped and variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, path := range paths {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, "unable to load %s", path)
		}
	}

	return nil
}

var validate = validator.New()

// Validate checks every setting is in range.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err != nil {
		return errors.Wrapf(ErrInvalidConfig, "%s", err)
	}

	return nil
}

// IDSource returns the identifier source selected by ids.source.
func (c *Config) IDSource() pipeline.IDSource {
	switch c.IDs.Source {
	case "xid":
		return pipeline.XIDSource{}
	case "sequence":
		return pipeline.NewSequenceSource(sequenceIDPrefix)
	default:
		return pipeline.UUIDSource{}
	}
}

// AssembleOptions returns the assembler options matching the settings.
func (c *Config) AssembleOptions() []pipeline.AssembleOption {
	return []pipeline.AssembleOption{
		pipeline.WithIDSource(c.IDSource()),
		pipeline.WithStepVersionBase(c.IDs.StepVersionBase),
		pipeline.WithHoursInterval(c.Orchestration.HoursInterval),
	}
}
