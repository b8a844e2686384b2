package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var getJSON bool

var getCmd = &cobra.Command{
	Use:   "get [kind] [id]",
	Short: "Read a record",
	Long:  `Read a record by kind and primary key. Outputs the document body by default, or the full attribute mapping with --json.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		kind, id := args[0], args[1]

		service, err := openService(true)
		if err != nil {
			fatal("Failed to initialize marl", err)
		}

		m, err := service.FindModel(context.Background(), kind, id)
		if err != nil {
			fatal("Failed to read record", err)
		}

		if getJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(m.All()); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		if body := m.GetString("content"); body != "" {
			fmt.Print(body)
			return
		}
		for _, key := range m.Keys() {
			fmt.Printf("%s: %v\n", key, m.Get(key))
		}
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().BoolVar(&getJSON, "json", false, "Output in JSON format")
}
