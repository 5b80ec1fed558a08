package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	errs "github.com/twitter/conduct/common/errors"
	"github.com/twitter/conduct/common/log/hooks"
	"github.com/twitter/conduct/conductr/cli"
)

// CLI binary to talk to ConductR
//	Supported commands: (see "-h" for all options)
//		load [bundle] [configuration]
//		run [bundle id]
//		stop [bundle id]
//		unload [bundle id]
//		info
//		services
//		version
//		package [source]
//	Global flags:
//		--ip, --port [address of ConductR, also $CONDUCTR_IP and $CONDUCTR_PORT]
//		--verbose [print the JSON returned by ConductR]
//		--long-ids [print full bundle ids]
//		--log_level [<error|info|debug> level and above should be logged]

func main() {
	log.AddHook(hooks.NewContextHook())

	cl := cli.NewCLIClient(nil)
	if err := cl.Exec(); err != nil {
		err = cli.Exitable(err)
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(int(errs.ExitCodeOf(err)))
	}
}
