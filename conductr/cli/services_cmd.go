package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	commoncli "github.com/twitter/conduct/common/client"
	"github.com/twitter/conduct/conductr/api"
	"github.com/twitter/conduct/table"
)

const (
	StatusRunning  = "Running"
	StatusStarting = "Starting"
)

var serviceColumns = []table.Column{
	{Name: "service", Header: "SERVICE"},
	{Name: "id", Header: "BUNDLE ID"},
	{Name: "name", Header: "BUNDLE NAME"},
	{Name: "status", Header: "STATUS"},
}

type servicesCmd struct{}

func (c *servicesCmd) RegisterFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "Print the services of every bundle",
		Args:  cobra.NoArgs,
	}
}

func (c *servicesCmd) Run(cl *commoncli.SimpleClient, cmd *cobra.Command, args []string) error {
	bundles, reply, err := cl.Conductor.Info()
	if err != nil {
		return err
	}
	dump("bundles", bundles)

	out := cmd.OutOrStdout()
	printVerbose(cl, out, reply)
	t, duplicates := ServicesTable(bundles, cl.Settings.LongIDs)
	if err := t.Write(out); err != nil {
		return err
	}
	return warnDuplicates(out, duplicates)
}

// ServicesTable has one row per service of every bundle, sorted by service.
// It also returns, sorted, the services offered by more than one endpoint.
func ServicesTable(bundles []api.Bundle, longIDs bool) (*table.Table, []string) {
	t := table.New(serviceColumns)
	endpoints := map[string]int{}
	for i := range bundles {
		b := &bundles[i]
		status := StatusStarting
		if b.Running() > 0 {
			status = StatusRunning
		}
		for _, s := range b.Services() {
			t.Append(table.Row{
				"service": s,
				"id":      api.DisplayID(b.BundleID, longIDs),
				"name":    b.Attributes.BundleName,
				"status":  status,
			})
			endpoints[s]++
		}
	}
	table.SortRows(t.Rows, "service")

	var duplicates []string
	for _, r := range t.Rows {
		s := r["service"].(string)
		if endpoints[s] > 1 {
			duplicates = append(duplicates, s)
			delete(endpoints, s)
		}
	}
	return t, duplicates
}

func warnDuplicates(w io.Writer, duplicates []string) error {
	if len(duplicates) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "\nWARNING: Multiple endpoints found for the following services: %s\n"+
		"WARNING: Service resolution for these services is undefined.\n", strings.Join(duplicates, ", "))
	return err
}
