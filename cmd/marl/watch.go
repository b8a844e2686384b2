package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Watch record changes",
	Long: `Watch prints record events as they happen. The optional pattern filters
by "kind/id" (e.g. "page/*"); without one, every record is reported.
Stop with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := ""
		if len(args) == 1 {
			pattern = args[0]
		}

		service, err := openService(true)
		if err != nil {
			fatal("Failed to initialize marl", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		events, err := service.Watch(ctx, pattern)
		if err != nil {
			fatal("Failed to start watching", err)
		}

		for e := range events {
			fmt.Println(e)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
