package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/marl"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a content root in the current directory",
	Long:  `Initialize the current directory as a Marl content root (creates the .marl system directory).`,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}

		if _, err := marl.Init(cwd,
			marl.WithAdapter(adapter),
			marl.WithExtension(extension),
			marl.WithLogger(slog.Default()),
		); err != nil {
			fatal("Failed to initialize content root", err)
		}

		fmt.Println("Initialized empty Marl content root in", cwd)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
