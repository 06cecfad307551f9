package init

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const defaultConfigContent = `# cloudpwn Configuration File
# Every key can also be set with an environment variable, e.g. CLOUDPWN_AWS_PROFILE

# AWS Configuration
aws:
  profile: ""  # AWS profile to use (supports SSO profiles)
  region: us-east-1  # Region for single-service enumeration

  # Regions walked by a full-account scan, in order
  regions:
    - us-east-1
    - us-east-2
    - us-west-1
    - us-west-2
    - ca-central-1
    - eu-west-1
    - eu-west-2
    - eu-central-1
    - ap-south-1
    - ap-southeast-1
    - ap-southeast-2
    - ap-northeast-1
    - sa-east-1

# Application Configuration
app:
  max_workers: 0  # Maximum number of concurrent workers (0 uses 4x CPU cores)
  requests_per_second: 10  # Routines started per second and region (0 disables pacing)
  log_format: text  # Log output format (text or json)
  log_level: INFO  # Set logging level (DEBUG, INFO, WARN, ERROR)
  assume_yes: false  # Skip the confirmation prompt

# Enumeration Configuration
enumerate:
  # Services run in every region when no service is given
  full_scan_services:
    - ec2
    - secrets
    - rds

# Full-account scan results, one CSV per resource kind
output:
  type: filesystem  # Output type (filesystem or s3)
  dir: dist/aws  # Directory for CSV files (filesystem only)
  bucket: ""  # S3 bucket name (required when type=s3)
  bucket_region: ""  # S3 bucket region (required when type=s3)
`

// NewConfigCmd creates the config subcommand
func NewConfigCmd() *cobra.Command {
	var force bool
	var output string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create a default config.yaml file",
		Long: `Create a default config.yaml file with recommended settings.

The file will be created in the current directory by default.
You can specify a different location using the --output flag.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = "config.yaml"
			}

			// Convert to absolute path
			absPath, err := filepath.Abs(output)
			if err != nil {
				return fmt.Errorf("failed to resolve absolute path: %w", err)
			}

			// Check if file exists
			if _, err := os.Stat(absPath); err == nil && !force {
				return fmt.Errorf("file %s already exists. Use --force to overwrite", absPath)
			}

			// Create directory if it doesn't exist
			dir := filepath.Dir(absPath)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}

			// Write the file
			if err := os.WriteFile(absPath, []byte(defaultConfigContent), 0644); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", absPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: ./config.yaml)")

	return cmd
}
