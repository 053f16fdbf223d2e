package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neboloop/arc-devtools-mcp/internal/browser"
)

// ProfileDirCmd prints the user-data directory a launch would use.
func ProfileDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile-dir",
		Short: "Print the browser profile directory",
		Long: `Print the user-data directory a launch with the current flags would use.
Isolated launches get a temporary directory chosen by the browser, which is
reported as "(temporary)".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			if opts.Connects() {
				return errors.New("--browserUrl attaches to an existing profile; nothing to resolve")
			}

			cfg, err := opts.LaunchConfig(nil)
			if err != nil {
				return err
			}

			// No driver call is made; the manager only resolves paths here.
			dir, err := browser.NewManager(nil).ResolveUserDataDir(cfg)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = "(temporary)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
