package cli

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	commoncli "github.com/twitter/conduct/common/client"
	"github.com/twitter/conduct/shazar"
)

type packageCmd struct {
	outputDir string
}

func (c *packageCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "package SOURCE",
		Short: "Package a directory into a content-addressed bundle",
		Args:  cobra.ExactArgs(1),
	}
	r.Flags().StringVar(&c.outputDir, "output-dir", ".", "Directory to write the bundle to")
	return r
}

func (c *packageCmd) Run(cl *commoncli.SimpleClient, cmd *cobra.Command, args []string) error {
	result, err := shazar.Package(args[0], c.outputDir, shazar.WithStats(cl.Stat.Scope("packager")))
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"digest":  result.Digest,
		"entries": result.Entries,
		"bytes":   result.Size,
	}).Info("Packaged bundle")
	_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Path)
	return err
}
