package cli

import (
	"github.com/spf13/cobra"

	"github.com/neboloop/arc-devtools-mcp/internal/config"
)

// Version is set at build time with -ldflags "-X ...cli.Version=v1.2.3".
var Version = "dev"

// Shared CLI flags (used across multiple command files)
var (
	cfgFile    string
	verbose    bool
	quiet      bool
	jsonLogs   bool
	flagValues config.Options
)

// SetupRootCmd configures the root command with all subcommands and flags
func SetupRootCmd() *cobra.Command {
	flagValues = config.Options{}

	rootCmd := &cobra.Command{
		Use:   "arc-devtools-mcp",
		Short: "Acquire an Arc browser for DevTools automation",
		Long: `arc-devtools-mcp launches Arc (or any Chromium-based browser) with a
persistent per-channel profile, or attaches to one that is already running
with remote debugging enabled, and keeps it until interrupted.

Examples:
  arc-devtools-mcp                                   # launch Arc (stable channel)
  arc-devtools-mcp --browserUrl http://127.0.0.1:9222 # attach to a running browser
  arc-devtools-mcp --isolated --headless              # throwaway headless profile
  arc-devtools-mcp targets                            # list automatable pages`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			return runRoot(cmd.Context(), cmd, opts)
		},
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: <cache dir>/config.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.BoolVarP(&quiet, "quiet", "q", false, "suppress log output")
	pf.BoolVar(&jsonLogs, "jsonLogs", false, "log as JSON")

	pf.StringVarP(&flagValues.BrowserURL, "browserUrl", "u", "", "connect to a running browser instance, e.g. http://127.0.0.1:9222")
	pf.BoolVar(&flagValues.Headless, "headless", false, "run the browser without a window")
	pf.StringVarP(&flagValues.ExecutablePath, "executablePath", "e", "", "path to a custom browser executable")
	pf.BoolVar(&flagValues.Isolated, "isolated", false, "use a temporary user-data-dir that is removed when the browser closes")
	pf.StringVar(&flagValues.Channel, "channel", "", "browser channel: stable, canary, beta or dev")
	pf.StringVar(&flagValues.LogFile, "logFile", "", "write debug logs and browser output to this file")
	pf.StringVar(&flagValues.Viewport, "viewport", "", "initial viewport size, e.g. 1280x720")
	pf.StringVar(&flagValues.ProxyServer, "proxyServer", "", "proxy server passed to the browser as --proxy-server")
	pf.BoolVar(&flagValues.AcceptInsecureCerts, "acceptInsecureCerts", false, "ignore TLS certificate errors")
	pf.BoolVar(&flagValues.ExperimentalDevtools, "experimentalDevtools", false, "expose DevTools windows as pages")
	pf.StringArrayVar(&flagValues.ChromeArgs, "chromeArg", nil, "additional browser argument (repeatable)")
	pf.StringVar(&flagValues.Driver, "driver", "", "browser driver: cdp (websocket) or playwright (pipe)")
	_ = pf.MarkHidden("experimentalDevtools")

	// Root-only flags
	rootCmd.Flags().StringVar(&flagValues.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464")

	rootCmd.AddCommand(TargetsCmd())
	rootCmd.AddCommand(ProfileDirCmd())
	rootCmd.AddCommand(VersionCmd())

	return rootCmd
}
