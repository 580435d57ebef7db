package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amg-tools/invent-cli/internal/catalog"
	"github.com/amg-tools/invent-cli/internal/invoice"
)

var counterpartiesCmd = &cobra.Command{
	Use:   "counterparties",
	Short: "List the counterparty feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(cfg.FeedPath)
		if err != nil {
			return err
		}
		for _, cp := range cat.All() {
			if cp.ID == invoice.ManualEntryID {
				fmt.Printf("%4d  %s\n", cp.ID, cp.Name)
				continue
			}
			fmt.Printf("%4d  %-40s  ИНН %d\n", cp.ID, cp.Name, cp.INN)
		}
		return nil
	},
}
