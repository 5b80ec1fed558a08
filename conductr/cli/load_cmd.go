package cli

/**
implements the command line entry for loading a bundle
*/

import (
	"fmt"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twitter/conduct/common"
	commoncli "github.com/twitter/conduct/common/client"
	"github.com/twitter/conduct/conductr/api"
	"github.com/twitter/conduct/conductr/client"
	"github.com/twitter/conduct/shazar"
)

const (
	DefaultNrOfCpus  = 1.0
	DefaultMemory    = 1 << 30
	DefaultDiskSpace = 1 << 30
)

type loadCmd struct {
	nrOfCpus  float64
	memory    int64
	diskSpace int64
	roles     []string
	name      string
	system    string
}

func (c *loadCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "load BUNDLE [CONFIGURATION]",
		Short: "Load a bundle and an optional configuration",
		Args:  cobra.RangeArgs(1, 2),
	}
	r.Flags().Float64Var(&c.nrOfCpus, "nr-of-cpus", DefaultNrOfCpus, "Number of cpus required to run the bundle")
	r.Flags().Int64Var(&c.memory, "memory", DefaultMemory, "Bytes of memory required to run the bundle")
	r.Flags().Int64Var(&c.diskSpace, "disk-space", DefaultDiskSpace, "Bytes of disk space required to store the bundle")
	r.Flags().StringSliceVar(&c.roles, "roles", nil, "Cluster member roles the bundle may run on, repeatable")
	r.Flags().StringVar(&c.name, "name", "", "Bundle name, derived from the bundle file name by default")
	r.Flags().StringVar(&c.system, "system", "", "System the bundle belongs to, the bundle name by default")
	return r
}

func (c *loadCmd) Run(cl *commoncli.SimpleClient, cmd *cobra.Command, args []string) error {
	bundle := common.ExpandHome(args[0])
	if err := checkArchive(bundle); err != nil {
		return err
	}
	configuration := ""
	if len(args) > 1 {
		configuration = common.ExpandHome(args[1])
		if err := checkArchive(configuration); err != nil {
			return err
		}
	}

	name := c.name
	if name == "" {
		name = BundleName(bundle)
	}
	system := c.system
	if system == "" {
		system = name
	}

	log.WithFields(log.Fields{
		"bundle":        bundle,
		"configuration": configuration,
		"name":          name,
		"system":        system,
	}).Info("Loading bundle")

	resp, reply, err := cl.Conductor.Load(&client.LoadRequest{
		BundleName:    name,
		System:        system,
		NrOfCpus:      c.nrOfCpus,
		Memory:        c.memory,
		DiskSpace:     c.diskSpace,
		Roles:         c.roles,
		Bundle:        bundle,
		Configuration: configuration,
	})
	if err != nil {
		return err
	}
	dump("load response", resp)

	out := cmd.OutOrStdout()
	printVerbose(cl, out, reply)
	id := api.DisplayID(resp.BundleID, cl.Settings.LongIDs)
	p := cl.Params()
	fmt.Fprintln(out, "Bundle loaded.")
	fmt.Fprintf(out, "Start bundle with: conduct run%s %s\n", p, id)
	fmt.Fprintf(out, "Unload bundle with: conduct unload%s %s\n", p, id)
	fmt.Fprintf(out, "Print ConductR info with: conduct info%s\n", p)
	return nil
}

// checkArchive rejects a file whose name carries a digest its bytes do not
// match, or that is not a tar.gz (or .zip) with a single root entry.
func checkArchive(path string) error {
	if _, _, ok := shazar.ParseName(path); ok {
		if err := shazar.Verify(path); err != nil {
			return &BundleError{Path: path, Err: err}
		}
	}
	if _, err := shazar.ArchiveRoot(path); err != nil {
		return &BundleError{Path: path, Err: err}
	}
	return nil
}

// BundleName strips the directory, any "-<digest>" and the archive extension from a bundle file name.
func BundleName(path string) string {
	if base, _, ok := shazar.ParseName(path); ok {
		return base
	}
	name := filepath.Base(path)
	for _, ext := range []string{shazar.Extension, ".tar.gz", shazar.ZipExtension} {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}
