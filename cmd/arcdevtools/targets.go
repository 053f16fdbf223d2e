package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// TargetsCmd lists the pages automation would see.
func TargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the pages visible to automation",
		Long: `Acquire the browser the same way the root command does and print the URL
of every page target that passes the target filter. A launched browser is
closed again afterwards; a connected browser is left running.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}

			s, err := newSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			b, err := s.acquire(cmd.Context(), opts)
			if err != nil {
				return err
			}

			pages, err := b.Pages(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list pages: %w", err)
			}
			for _, p := range pages {
				fmt.Fprintln(cmd.OutOrStdout(), p.URL())
			}
			return nil
		},
	}
}
