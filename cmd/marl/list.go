package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	listJSON    bool
	listPattern string
)

var listCmd = &cobra.Command{
	Use:   "list [kind]",
	Short: "List records of a kind",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		kind := args[0]

		service, err := openService(true)
		if err != nil {
			fatal("Failed to initialize marl", err)
		}

		models, err := service.ListModels(context.Background(), kind, listPattern)
		if err != nil {
			fatal("Failed to list records", err)
		}

		if listJSON {
			out := make([]map[string]any, 0, len(models))
			for _, m := range models {
				out = append(out, m.All())
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(out); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, m := range models {
			title := ""
			if t := m.GetString("title"); t != "" {
				title = fmt.Sprintf("- %s", t)
			}
			fmt.Printf("%v %s\n", m.PrimaryKey(), title)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listPattern, "pattern", "", "Glob pattern to filter primary keys")
}
