package list

import (
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles, services and regions",
		Long: `List the inputs an enumeration can be run with.
Currently supports listing:
  - Available AWS credential profiles
  - Supported services and their resource routines
  - Regions, either the configured defaults or those enabled for an account`,
	}

	// Add subcommands
	cmd.AddCommand(NewProfilesCmd())
	cmd.AddCommand(NewServicesCmd())
	cmd.AddCommand(NewRegionsCmd())

	return cmd
}
