package cli

/**
implements the command line entries for running and stopping a bundle
*/

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	commoncli "github.com/twitter/conduct/common/client"
	"github.com/twitter/conduct/conductr/api"
)

type runCmd struct {
	scale int
}

func (c *runCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "run BUNDLE_ID",
		Short: "Run a bundle",
		Args:  cobra.ExactArgs(1),
	}
	r.Flags().IntVar(&c.scale, "scale", 1, "Number of instances of the bundle to run")
	return r
}

func (c *runCmd) Run(cl *commoncli.SimpleClient, cmd *cobra.Command, args []string) error {
	log.Infof("Running bundle %s at scale %d", args[0], c.scale)
	resp, reply, err := cl.Conductor.Scale(args[0], c.scale)
	if err != nil {
		return err
	}
	dump("run response", resp)

	out := cmd.OutOrStdout()
	printVerbose(cl, out, reply)
	id := api.DisplayID(resp.BundleID, cl.Settings.LongIDs)
	p := cl.Params()
	fmt.Fprintln(out, "Bundle run request sent.")
	fmt.Fprintf(out, "Stop bundle with: conduct stop%s %s\n", p, id)
	fmt.Fprintf(out, "Print ConductR info with: conduct info%s\n", p)
	return nil
}

type stopCmd struct{}

func (c *stopCmd) RegisterFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "stop BUNDLE_ID",
		Short: "Stop every instance of a bundle",
		Args:  cobra.ExactArgs(1),
	}
}

func (c *stopCmd) Run(cl *commoncli.SimpleClient, cmd *cobra.Command, args []string) error {
	log.Infof("Stopping bundle %s", args[0])
	resp, reply, err := cl.Conductor.Scale(args[0], 0)
	if err != nil {
		return err
	}
	dump("stop response", resp)

	out := cmd.OutOrStdout()
	printVerbose(cl, out, reply)
	id := api.DisplayID(resp.BundleID, cl.Settings.LongIDs)
	p := cl.Params()
	fmt.Fprintln(out, "Bundle stop request sent.")
	fmt.Fprintf(out, "Unload bundle with: conduct unload%s %s\n", p, id)
	fmt.Fprintf(out, "Print ConductR info with: conduct info%s\n", p)
	return nil
}
