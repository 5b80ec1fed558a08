package cli

import (
	"github.com/spf13/cobra"

	commoncli "github.com/twitter/conduct/common/client"
	"github.com/twitter/conduct/conductr/api"
	"github.com/twitter/conduct/table"
)

var infoColumns = []table.Column{
	{Name: "id", Header: "ID"},
	{Name: "name", Header: "NAME"},
	{Name: "replications", Header: "#REP"},
	{Name: "starting", Header: "#STR"},
	{Name: "running", Header: "#RUN"},
}

type infoCmd struct{}

func (c *infoCmd) RegisterFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print bundle information",
		Args:  cobra.NoArgs,
	}
}

func (c *infoCmd) Run(cl *commoncli.SimpleClient, cmd *cobra.Command, args []string) error {
	bundles, reply, err := cl.Conductor.Info()
	if err != nil {
		return err
	}
	dump("bundles", bundles)

	out := cmd.OutOrStdout()
	printVerbose(cl, out, reply)
	return InfoTable(bundles, cl.Settings.LongIDs).Write(out)
}

// InfoTable has one row per bundle, in the order given.
func InfoTable(bundles []api.Bundle, longIDs bool) *table.Table {
	t := table.New(infoColumns)
	for i := range bundles {
		b := &bundles[i]
		t.Append(table.Row{
			"id":           api.DisplayID(b.BundleID, longIDs),
			"name":         b.Attributes.BundleName,
			"replications": b.Replications(),
			"starting":     b.Starting(),
			"running":      b.Running(),
		})
	}
	return t
}
