package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [kind] [id]",
	Short: "Delete a record",
	Long:  `Delete permanently removes a record from the store.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		kind, id := args[0], args[1]

		service, err := openService(true)
		if err != nil {
			fatal("Failed to initialize marl", err)
		}

		m := service.NewModel(kind, nil)
		m.SetPrimaryKey(id)
		if err := service.DeleteModel(context.Background(), m); err != nil {
			fatal("Failed to delete record", err)
		}

		fmt.Printf("Record deleted: %s/%s\n", kind, id)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
