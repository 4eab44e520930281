package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cipherweave/internal/config"
	"cipherweave/internal/logging"
)

// app holds state shared by every subcommand.
type app struct {
	cfgPath string
	verbose bool
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "cipherweave",
		Short: "Chain reversible text ciphers and render restore instructions",
		Long: `cipherweave encodes a text through an ordered chain of reversible
ciphers, verifies the chain by decoding it back, and renders numbered
restore instructions wrapped in a fixed document template.

Word-based ciphers must come before any letter-based cipher.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			opts := logging.FromEnv(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
			if a.verbose {
				opts.Level = "debug"
			}
			logging.Configure(opts)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "cipherweave.yml", "Config file (missing file uses defaults)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newEncodeCmd(a))
	root.AddCommand(newListCmd())
	root.AddCommand(newServeCmd(a))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
