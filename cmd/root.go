package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	initCmd "cloudpwn/cmd/init"
	"cloudpwn/cmd/list"
	"cloudpwn/cmd/version"
	"cloudpwn/internal/app"
	"cloudpwn/internal/config"
	"cloudpwn/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunFunc executes an enumeration request with loaded settings
type RunFunc func(ctx context.Context, settings config.Settings, req app.Request) error

func runEnumeration(ctx context.Context, settings config.Settings, req app.Request) error {
	r := &app.Runner{
		Settings: settings,
		Progress: os.Stderr,
	}
	return r.Run(ctx, req)
}

// Execute adds all child commands to the root command and runs it until
// completion or SIGINT/SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCmd(nil).ExecuteContext(ctx)
}

// NewRootCmd creates the root command. A nil run uses the default runner.
func NewRootCmd(run RunFunc) *cobra.Command {
	if run == nil {
		run = runEnumeration
	}

	var (
		configFile string
		logLevel   string
		logFormat  string
	)

	rootCmd := &cobra.Command{
		Use:   "cloudpwn <provider> [service[,service...]]",
		Short: "cloudpwn - AWS resource enumeration tool",
		Long: `cloudpwn enumerates the resources reachable with a set of AWS credentials.

When a service is given, every resource routine of that service runs in one region
and the results are printed as tables. Without a service, the configured service
subset runs across every configured region, a summary is printed and one CSV per
resource kind is written.`,
		Example: `  # Enumerate EC2 resources in us-west-2
  cloudpwn aws ec2 --profile audit --region us-west-2

  # Enumerate several services without the confirmation prompt
  cloudpwn aws ec2,rds,secrets --profile audit --yes

  # Full-account scan written to S3
  cloudpwn aws --profile audit --output s3 --bucket audit-results --bucket-region us-east-1`,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Configure(logging.LogConfig{
				Level:  logging.ParseLevel(logLevel),
				Format: logging.ParseFormat(logFormat),
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if err := config.BindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			settings, err := config.Load(v, configFile)
			if err != nil {
				return err
			}

			// the config file may set the log level and format
			logging.Configure(logging.LogConfig{
				Level:  logging.ParseLevel(settings.LogLevel),
				Format: logging.ParseFormat(settings.LogFormat),
			})
			config.LogSources(v)

			req := app.Request{
				Provider: args[0],
				Profile:  settings.Profile,
				Region:   settings.Region,
			}
			if len(args) > 1 {
				req.Services = args[1]
			}
			return run(cmd.Context(), settings, req)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log output format (text or json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO",
		"Set logging level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().Int("max-workers", config.DefaultMaxWorkers(), "Maximum number of concurrent workers")

	// Enumeration flags
	flags := rootCmd.Flags()
	flags.StringP("profile", "p", "", "AWS profile to use (supports SSO profiles)")
	flags.StringP("region", "r", config.DefaultRegion, "Region for single-service enumeration")
	flags.BoolP("yes", "y", false, "Skip the confirmation prompt")
	flags.String("output", config.OutputFileSystem, "Output type for full-account scans (filesystem or s3)")
	flags.String("output-dir", config.DefaultOutputDir, "Directory for full-account CSV files")
	flags.String("bucket", "", "S3 bucket name (required when output=s3)")
	flags.String("bucket-region", "", "S3 bucket region (required when output=s3)")
	flags.StringSlice("full-scan-services", config.DefaultFullScanServices, "Services run per region in a full-account scan")

	rootCmd.AddCommand(list.NewListCmd())
	rootCmd.AddCommand(initCmd.NewInitCmd())
	rootCmd.AddCommand(version.NewVersionCmd())

	return rootCmd
}
