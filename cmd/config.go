package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/Johannes-Berggren/mkgitbranch/internal/config"
	"github.com/Johannes-Berggren/mkgitbranch/internal/logger"
)

var configCmd = &cobra.Command{
	Use:   "config [directory]",
	Short: "Show where the configuration comes from and its effective values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			dir = wd
		}

		log := logger.New(cmd.ErrOrStderr(), opts.debug)
		loaded, cfgErr := config.Resolve(dir, opts.configPath, log)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# source: %s\n", loaded.Source)
		for _, w := range loaded.Warnings {
			fmt.Fprintf(out, "# warning: %s\n", w)
		}

		data, err := toml.Marshal(loaded.Config)
		if err != nil {
			return errors.Join(cfgErr, fmt.Errorf("failed to encode configuration: %w", err))
		}
		fmt.Fprint(out, string(data))

		return cfgErr
	},
}
