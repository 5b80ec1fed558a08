package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	errs "github.com/twitter/conduct/common/errors"
	"github.com/twitter/conduct/common/log/hooks"
	"github.com/twitter/conduct/shazar"
)

// Packages a directory into <name>-<sha256>.tgz and prints the archive path.
//	shazar [--output-dir DIR] SOURCE

func main() {
	log.AddHook(hooks.NewContextHook())

	var outputDir, logLevel string
	root := &cobra.Command{
		Use:           "shazar SOURCE",
		Short:         "shazar packages a directory into a content-addressed bundle",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := shazar.Package(args[0], outputDir)
			if err != nil {
				return errs.NewError(err, errs.PackageFailureExitCode)
			}
			log.WithFields(log.Fields{"digest": result.Digest, "entries": result.Entries}).Info("Packaged bundle")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Path)
			return err
		},
	}
	root.Flags().StringVar(&outputDir, "output-dir", ".", "Directory to write the bundle to")
	root.Flags().StringVar(&logLevel, "log_level", "error", "Log everything at this level and above (error|info|debug)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(int(errs.ExitCodeOf(err)))
	}
}
