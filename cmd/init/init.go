package init

import (
	"github.com/spf13/cobra"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize cloudpwn configuration files",
		Long: `Initialize cloudpwn configuration files.

This command helps you create a default config.yaml with every setting
cloudpwn reads, commented with its default value.`,
	}

	cmd.AddCommand(NewConfigCmd())

	return cmd
}
