package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/marl"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	adapter   string
	extension string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "marl",
	Short: "A record store for headless content toolkits",
	Long: `Marl treats a directory of Markdown, YAML or JSON documents as a record
database: every record is a validated bag of attributes with identity,
timestamps and an allow-list.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "fs", "Storage adapter (fs, sqlite)")
	rootCmd.PersistentFlags().StringVar(&extension, "ext", "", "Record file extension for the fs adapter (.md, .yaml, .json)")
}

// openService resolves the content root from the working directory and wires
// up the service. Commands that only read pass mustExist=true so they fail
// fast outside a content root.
func openService(mustExist bool, extra ...marl.Option) (*marl.Service, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := marl.FindRoot(wd)
	if err != nil {
		root = wd
	}

	opts := append([]marl.Option{
		marl.WithAdapter(adapter),
		marl.WithExtension(extension),
		marl.WithMustExist(mustExist),
		marl.WithLogger(slog.Default()),
	}, extra...)

	cfgPath := filepath.Join(root, "marl.yaml")
	if _, err := os.Stat(cfgPath); err == nil {
		opts = append(opts, marl.WithConfigFile(cfgPath))
	}

	uri := root
	if adapter == "sqlite" {
		uri = filepath.Join(root, "marl.db")
	}
	return marl.New(uri, opts...)
}
