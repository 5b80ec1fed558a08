package cli

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	commoncli "github.com/twitter/conduct/common/client"
)

type unloadCmd struct{}

func (c *unloadCmd) RegisterFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "unload BUNDLE_ID",
		Short: "Unload a bundle",
		Args:  cobra.ExactArgs(1),
	}
}

func (c *unloadCmd) Run(cl *commoncli.SimpleClient, cmd *cobra.Command, args []string) error {
	log.Infof("Unloading bundle %s", args[0])
	reply, err := cl.Conductor.Unload(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printVerbose(cl, out, reply)
	fmt.Fprintln(out, "Bundle unload request sent.")
	fmt.Fprintf(out, "Print ConductR info with: conduct info%s\n", cl.Params())
	return nil
}
