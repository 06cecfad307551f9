package list

import (
	"fmt"
	"io"

	awslib "cloudpwn/internal/aws"
	"cloudpwn/internal/aws/enumerators"
	"github.com/spf13/cobra"
)

// NewServicesCmd creates and returns the services command
func NewServicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "List supported services",
		Long: `List every service that can be passed to cloudpwn, with the resource
routines it runs in order. Global services are enumerated once per account.`,
		Example: `  # List supported services
  cloudpwn list services`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServices(cmd.OutOrStdout(), enumerators.NewRegistry())
		},
	}

	return cmd
}

func runServices(out io.Writer, registry *awslib.Registry) error {
	services := registry.Services()
	if len(services) == 0 {
		fmt.Fprintln(out, "No services registered")
		return nil
	}

	// constructors only keep the clients, so metadata needs no connection
	placeholder := &awslib.Clients{}

	fmt.Fprintln(out, "Available services:")
	for _, s := range services {
		scope := "regional"
		if s.Global() {
			scope = "global"
		}
		fmt.Fprintf(out, "  - %s (%s)\n", s, scope)
		for _, ctor := range registry.Routines(s) {
			e := ctor(placeholder)
			fmt.Fprintf(out, "      %s: %s\n", e.Name(), e.Label())
		}
	}
	return nil
}
