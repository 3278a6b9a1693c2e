package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	appName    = "designcheck"
	appVersion = "0.1.0"
)

// errCheckFailed signals a completed run whose verdict was negative. It maps
// to exit status 1 without an error message.
var errCheckFailed = errors.New("check failed")

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Check a rendered page against its design",
	Long: `Designcheck compares an implementation with its design:
  - style comparison of computed CSS against design tokens
  - pixel comparison of screenshots with region detection
  - combined audits with a pass/fail verdict
  - an MCP server exposing all of the above to coding agents`,
	Version:       appVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger(verbose)
	},
	// Default behavior: if stdin is not a terminal, run as MCP server
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return runMCP(cmd, args)
		}
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: nearest .designcheck.kdl, then the global config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(stylesCmd)
	rootCmd.AddCommand(pixelsCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.SetVersionTemplate(fmt.Sprintf("%s v%s\n", appName, appVersion))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// setupLogger writes human-readable logs to stderr so stdout stays free for
// results and the MCP stdio transport.
func setupLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
