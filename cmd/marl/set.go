package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/marl"
	"github.com/spf13/cobra"
)

var (
	setID      string
	setContent string
	setStamps  bool
)

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set [kind] [field=value]...",
	Short: "Create or update a record",
	Long: `Create or update a record of the given kind. Attributes are passed as
field=value pairs; --id names the record, --content sets the document body.
Without --id a primary key is generated.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		kind := args[0]

		attrs := marl.Attributes{}
		for _, pair := range args[1:] {
			field, value, ok := strings.Cut(pair, "=")
			if ok && field != "" {
				attrs[field] = value
			} else {
				fatal("Invalid attribute", fmt.Errorf("expected field=value, got %q", pair))
			}
		}
		if setContent != "" {
			attrs["content"] = setContent
		}

		service, err := openService(false, marl.WithGenerateIDs(setID == ""))
		if err != nil {
			fatal("Failed to initialize marl", err)
		}

		var modelOpts []marl.ModelOption
		if setStamps {
			modelOpts = append(modelOpts, marl.WithTimestamps())
		}
		m := service.NewModel(kind, attrs, modelOpts...)
		if setID != "" {
			m.SetPrimaryKey(setID)
		}

		if err := service.SaveModel(context.Background(), m); err != nil {
			fatal("Failed to save record", err)
		}

		fmt.Printf("Record saved: %s/%v\n", kind, m.PrimaryKey())
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().StringVar(&setID, "id", "", "Record primary key (generated when omitted)")
	setCmd.Flags().StringVar(&setContent, "content", "", "Document body")
	setCmd.Flags().BoolVar(&setStamps, "timestamps", false, "Stamp created/modified fields")
}
