package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twitter/conduct/common"
	commoncli "github.com/twitter/conduct/common/client"
)

type versionCmd struct{}

func (c *versionCmd) RegisterFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of conduct",
		Args:  cobra.NoArgs,
	}
}

func (c *versionCmd) Run(cl *commoncli.SimpleClient, cmd *cobra.Command, args []string) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), common.Version)
	return err
}
