package client

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twitter/conduct/common/stats"
	"github.com/twitter/conduct/conductr/client"
	"github.com/twitter/conduct/config"
)

// Client interface that includes CLI handling
type CLIClient interface {
	Exec() error
}

// SimpleClient includes base fields required for implementing client
type SimpleClient struct {
	RootCmd   *cobra.Command
	Settings  config.Settings
	Verbose   bool
	Doer      client.Doer // nil means the default transport
	Stat      stats.StatsReceiver
	Conductor *client.Client
}

// Command interface used to run client commands
type Cmd interface {
	RegisterFlags() *cobra.Command
	Run(cl *SimpleClient, cmd *cobra.Command, args []string) error
}

// Params renders the address flags a follow-up command needs, omitting
// those left at their default. The result is empty or starts with a space.
func (cl *SimpleClient) Params() string {
	var b strings.Builder
	if cl.Settings.IP != config.DefaultIP {
		fmt.Fprintf(&b, " --ip %s", cl.Settings.IP)
	}
	if cl.Settings.Port != config.DefaultPort {
		fmt.Fprintf(&b, " --port %d", cl.Settings.Port)
	}
	return b.String()
}
