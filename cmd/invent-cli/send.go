package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/amg-tools/invent-cli/internal/host"
)

var sendCmd = &cobra.Command{
	Use:   "send <document.json>",
	Short: "Validate a document file and hand it off to the host",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		gate := host.NewGate(newSink())
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := gate.Submit(ctx, doc); err != nil {
			return err
		}
		fmt.Println("отправлено")
		return nil
	},
}
