// scene-builder compiles YAML scene descriptions into BVH or OBJ text.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/scene-builder/internal/compiler"
	"github.com/Faultbox/scene-builder/internal/config"
	"github.com/Faultbox/scene-builder/internal/logger"
)

// Version is set at build time.
var Version = "dev"

func newRootCmd(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scene-builder <input.yaml>",
		Short: "Compile scene yaml files into BVH or OBJ format",
		Long: `scene-builder reads a YAML scene of strips, rays, instances and boxes,
optionally rewrites its box hierarchy, and emits either a bounding volume
hierarchy document or a Wavefront OBJ mesh. Without an output format or
path the scene is only verified.`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Input = args[0]
			}

			if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync()
			logger.Sugar.Debugf("Config: %+v", cfg)

			if err := compiler.Run(cfg, stdout); err != nil {
				logger.Debug("compile failed", zap.Error(err))
				return err
			}
			return nil
		},
	}
	config.RegisterFlags(cmd.Flags())
	cmd.AddCommand(newInitConfigCmd())
	return cmd
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints a single error line, in red when stderr is a terminal.
func reportError(f *os.File, err error) {
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		color.NoColor = true
	}
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(f, "%s %v\n", red("ERROR:"), err)
}
