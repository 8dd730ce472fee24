package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/scene-builder/internal/config"
)

func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default configuration to a file",
		Long:  "Write the default configuration as YAML, to ./" + config.FileName + " unless a path is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.Default().SaveTo(path); err != nil {
				return fmt.Errorf("writing config to %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}
