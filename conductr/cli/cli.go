package cli

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	commoncli "github.com/twitter/conduct/common/client"
	"github.com/twitter/conduct/common/stats"
	"github.com/twitter/conduct/conductr/client"
	"github.com/twitter/conduct/config"
)

// ConductCLIClient includes fields required for CLI client handling
type ConductCLIClient struct {
	commoncli.SimpleClient

	settingsPath string
	ip           string
	port         int
	longIDs      bool
	logLevel     string
}

func (c *ConductCLIClient) Exec() error {
	return c.RootCmd.Execute()
}

// NewCLIClient builds the conduct command tree. A nil doer uses the default transport.
func NewCLIClient(d client.Doer) *ConductCLIClient {
	c := &ConductCLIClient{}
	c.Doer = d
	c.Stat = stats.DefaultStatsReceiver()

	c.RootCmd = &cobra.Command{
		Use:                "conduct",
		Short:              "conduct is a command-line client to ConductR",
		PersistentPreRunE:  c.Init,
		PersistentPostRunE: c.Close,
		SilenceErrors:      true,
		SilenceUsage:       true,
	}
	flags := c.RootCmd.PersistentFlags()
	flags.StringVar(&c.ip, "ip", config.DefaultIP, "ConductR address. Overrides $"+config.IPEnv+" and the settings file")
	flags.IntVar(&c.port, "port", config.DefaultPort, "ConductR port. Overrides $"+config.PortEnv+" and the settings file")
	flags.BoolVar(&c.Verbose, "verbose", false, "Print the JSON returned by ConductR")
	flags.BoolVar(&c.longIDs, "long-ids", false, "Print full bundle ids")
	flags.StringVar(&c.logLevel, "log_level", config.DefaultLogLevel, "Log everything at this level and above (error|info|debug)")
	flags.StringVar(&c.settingsPath, "settings", config.Path(), "Settings file, $"+config.HomeEnv+"/"+config.SettingsFile+" by default")

	c.addCmd(&loadCmd{})
	c.addCmd(&runCmd{})
	c.addCmd(&stopCmd{})
	c.addCmd(&unloadCmd{})
	c.addCmd(&infoCmd{})
	c.addCmd(&servicesCmd{})
	c.addCmd(&versionCmd{})
	c.addCmd(&packageCmd{})

	return c
}

// Can only be called from cobra command run or hook
func (c *ConductCLIClient) Init(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(c.settingsPath)
	if err != nil {
		return err
	}
	flags := c.RootCmd.PersistentFlags()
	if flags.Changed("ip") {
		settings.IP = c.ip
	}
	if flags.Changed("port") {
		settings.Port = c.port
	}
	if flags.Changed("long-ids") {
		settings.LongIDs = c.longIDs
	}
	if flags.Changed("log_level") {
		settings.LogLevel = c.logLevel
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	level, err := log.ParseLevel(settings.LogLevel)
	if err != nil {
		log.Error(err)
		return err
	}
	log.SetLevel(level)

	c.Settings = settings
	c.Conductor = client.NewClient(client.Config{
		IP:   settings.IP,
		Port: settings.Port,
		Doer: c.Doer,
		Stat: c.Stat,
	})
	log.WithFields(log.Fields{
		"addr":     c.Conductor.Addr(),
		"settings": c.settingsPath,
	}).Debug("Initialized conduct")
	return nil
}

// Needs cobra parameters for use from rootCmd
func (c *ConductCLIClient) Close(cmd *cobra.Command, args []string) error {
	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debugf("Stats: %s", c.Stat.Render(true))
	}
	return nil
}

func (c *ConductCLIClient) addCmd(cmd commoncli.Cmd) {
	cobraCmd := cmd.RegisterFlags()
	cobraCmd.RunE = func(innerCmd *cobra.Command, args []string) error {
		return Exitable(cmd.Run(&c.SimpleClient, innerCmd, args))
	}
	c.RootCmd.AddCommand(cobraCmd)
}
