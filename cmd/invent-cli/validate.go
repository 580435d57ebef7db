package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amg-tools/invent-cli/internal/invoice"
)

var validateCmd = &cobra.Command{
	Use:   "validate <document.json>",
	Short: "Check a document file against the submission rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		errs := invoice.Validate(doc)
		if errs.Ready() {
			fmt.Println("ok")
			return nil
		}
		for field, msg := range errs {
			fmt.Printf("%s: %s\n", field, msg)
		}
		return fmt.Errorf("%d validation error(s)", len(errs))
	},
}

func loadDocument(path string) (invoice.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return invoice.Document{}, fmt.Errorf("read document: %w", err)
	}
	var doc invoice.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return invoice.Document{}, fmt.Errorf("parse document %s: %w", path, err)
	}
	return doc, nil
}
