package list

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/spf13/cobra"

	awslib "cloudpwn/internal/aws"
	"cloudpwn/internal/config"
	"cloudpwn/internal/logging"
)

// describeRegions returns the account id and enabled regions of a profile
var describeRegions = func(ctx context.Context, profile, region string) (string, []string, error) {
	sess, err := awslib.NewSession(profile, region)
	if err != nil {
		return "", nil, err
	}

	account, err := awslib.CallerAccount(sess)
	if err != nil {
		return "", nil, err
	}

	regions, err := awslib.GetAvailableRegions(ctx, ec2.New(sess))
	if err != nil {
		return "", nil, err
	}
	return account, regions, nil
}

type regionsOptions struct {
	remote  bool
	profile string
	region  string
}

// NewRegionsCmd creates and returns the regions command
func NewRegionsCmd() *cobra.Command {
	opts := &regionsOptions{}

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List regions",
		Long: `List the regions a full-account scan walks by default.
With --remote, list the regions enabled for the account of a profile instead.`,
		Example: `  # List default scan regions
  cloudpwn list regions

  # List regions enabled for an account
  cloudpwn list regions --remote --profile audit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegions(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.remote, "remote", false, "Query the regions enabled for the account")
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "AWS profile to use with --remote")
	cmd.Flags().StringVarP(&opts.region, "region", "r", config.DefaultRegion, "Region used to query with --remote")
	return cmd
}

func runRegions(ctx context.Context, out io.Writer, opts *regionsOptions) error {
	regions := config.DefaultRegions
	if opts.remote {
		if ctx == nil {
			ctx = context.Background()
		}
		account, remote, err := describeRegions(ctx, opts.profile, opts.region)
		if err != nil {
			return fmt.Errorf("failed to list regions: %w", err)
		}
		logging.Info("Listed enabled regions", map[string]interface{}{
			"account": account,
			"count":   len(remote),
		})
		fmt.Fprintf(out, "Regions enabled for account %s:\n", account)
		regions = remote
	} else {
		fmt.Fprintln(out, "Default scan regions:")
	}

	for _, region := range regions {
		fmt.Fprintf(out, "  %s\n", region)
	}
	return nil
}
