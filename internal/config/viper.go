package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"cloudpwn/internal/logging"
)

// EnvPrefix is the prefix of environment variables read by Load
const EnvPrefix = "CLOUDPWN"

// flagNames maps config keys to the command line flags that override them
var flagNames = map[string]string{
	"aws.profile":                  "profile",
	"aws.region":                   "region",
	"app.max_workers":              "max-workers",
	"app.log_format":               "log-format",
	"app.log_level":                "log-level",
	"app.assume_yes":               "yes",
	"output.type":                  "output",
	"output.dir":                   "output-dir",
	"output.bucket":                "bucket",
	"output.bucket_region":         "bucket-region",
	"enumerate.full_scan_services": "full-scan-services",
}

// keys lists every configuration parameter in display order
var keys = []string{
	"aws.profile",
	"aws.region",
	"aws.regions",
	"app.max_workers",
	"app.requests_per_second",
	"app.log_format",
	"app.log_level",
	"app.assume_yes",
	"enumerate.full_scan_services",
	"output.type",
	"output.dir",
	"output.bucket",
	"output.bucket_region",
}

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("aws.profile", "")
	v.SetDefault("aws.region", DefaultRegion)
	v.SetDefault("aws.regions", DefaultRegions)
	v.SetDefault("app.max_workers", DefaultMaxWorkers())
	v.SetDefault("app.requests_per_second", 10.0)
	v.SetDefault("app.log_format", "text")
	v.SetDefault("app.log_level", "INFO")
	v.SetDefault("app.assume_yes", false)
	v.SetDefault("enumerate.full_scan_services", DefaultFullScanServices)
	v.SetDefault("output.type", OutputFileSystem)
	v.SetDefault("output.dir", DefaultOutputDir)
	v.SetDefault("output.bucket", "")
	v.SetDefault("output.bucket_region", "")
}

// BindFlags binds the known flags present in flags to their config keys.
// Flags that are not defined on the set are skipped.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagNames {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads configuration into Settings. An explicit configFile must exist;
// otherwise config.yaml is looked up in the current directory and ~/.cloudpwn,
// and a missing file is fine.
func Load(v *viper.Viper, configFile string) (Settings, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".cloudpwn"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
		logging.Debug("No config file found, using defaults and environment variables")
	} else {
		logging.Debug("Loaded config file", map[string]interface{}{
			"path": v.ConfigFileUsed(),
		})
	}

	s := Settings{
		Profile:           strings.TrimSpace(v.GetString("aws.profile")),
		Region:            strings.TrimSpace(v.GetString("aws.region")),
		Regions:           splitList(v.GetStringSlice("aws.regions")),
		FullScanServices:  splitList(v.GetStringSlice("enumerate.full_scan_services")),
		MaxWorkers:        v.GetInt("app.max_workers"),
		RequestsPerSecond: v.GetFloat64("app.requests_per_second"),
		LogFormat:         v.GetString("app.log_format"),
		LogLevel:          v.GetString("app.log_level"),
		AssumeYes:         v.GetBool("app.assume_yes"),
		Output: OutputSettings{
			Type:         strings.ToLower(v.GetString("output.type")),
			Dir:          v.GetString("output.dir"),
			Bucket:       v.GetString("output.bucket"),
			BucketRegion: v.GetString("output.bucket_region"),
		},
	}
	if s.Region == "" {
		s.Region = DefaultRegion
	}
	if s.MaxWorkers <= 0 {
		s.MaxWorkers = DefaultMaxWorkers()
	}

	return s, s.Validate()
}

// Validate checks the settings that cannot be defaulted
func (s Settings) Validate() error {
	if len(s.Regions) == 0 {
		return fmt.Errorf("at least one region must be configured in aws.regions")
	}
	switch s.Output.Type {
	case OutputFileSystem:
	case OutputS3:
		if s.Output.Bucket == "" {
			return fmt.Errorf("--bucket is required when --output=s3")
		}
		if s.Output.BucketRegion == "" {
			return fmt.Errorf("--bucket-region is required when --output=s3")
		}
	default:
		return fmt.Errorf("invalid output type: %s", s.Output.Type)
	}
	if s.RequestsPerSecond < 0 {
		return fmt.Errorf("app.requests_per_second must not be negative")
	}
	return nil
}

// LogSources logs every parameter value at DEBUG level
func LogSources(v *viper.Viper) {
	logging.Debug("Configuration parameters:")
	for _, key := range keys {
		logging.Debug(fmt.Sprintf("  %s = %v", key, v.Get(key)))
	}
}

// splitList flattens comma-separated entries so that env vars such as
// CLOUDPWN_AWS_REGIONS=us-east-1,eu-west-1 behave like YAML lists
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
