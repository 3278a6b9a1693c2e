package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/standardbeagle/designcheck/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a documented default config file",
	Long: `Write a config file containing every setting at its default value.

By default the file is .designcheck.kdl in the current directory. With --global
it is written to the user config directory instead.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var (
	configGlobal bool
	configForce  bool
)

func init() {
	configInitCmd.Flags().BoolVar(&configGlobal, "global", false, "Write the global config instead of the project config")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.ProjectConfigFile
	if configGlobal {
		path = config.GlobalConfigPath()
		if path == "" {
			return fmt.Errorf("cannot determine user config directory")
		}
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working dir: %w", err)
		}
		path = filepath.Join(wd, path)
	}

	if err := config.WriteDefaultConfig(path, configForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	src := a.cfg.Source()
	if src == "" {
		src = "built-in defaults"
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "# %s\n", src)
	return printJSON(cmd.OutOrStdout(), a.cfg)
}
