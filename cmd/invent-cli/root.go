package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amg-tools/invent-cli/internal/catalog"
	"github.com/amg-tools/invent-cli/internal/config"
	"github.com/amg-tools/invent-cli/internal/host"
	"github.com/amg-tools/invent-cli/internal/invoice"
	"github.com/amg-tools/invent-cli/internal/logger"
	"github.com/amg-tools/invent-cli/internal/tui"
)

var cfg *config.Config

var (
	flagCounterparty int
	flagFromFile     bool
	flagItemsFile    string
)

var rootCmd = &cobra.Command{
	Use:   "invent-cli",
	Short: "Invoice composer with a counterparty feed and a messaging-host hand-off",
	Long: `invent-cli is a single-screen invoice composer. Pick a buyer from the
counterparty feed (or enter one by hand), fill the goods/services table and
hand the finished document off to the messaging host. Without a configured
host the document lands in a local outbox directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := logger.Setup(cfg.LoggerConfig()); err != nil {
			return fmt.Errorf("setup logger: %w", err)
		}
		return nil
	},
	RunE: runTUI,
}

func init() {
	rootCmd.Flags().IntVar(&flagCounterparty, "counterparty", 0,
		"counterparty id to open the invoice with (skips the menu)")
	rootCmd.Flags().BoolVar(&flagFromFile, "from-file", false,
		"mark the item list as externally supplied; the item editor is disabled")
	rootCmd.Flags().StringVar(&flagItemsFile, "items", "",
		"JSON file with pre-built line items (implies --from-file)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(counterpartiesCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(sendCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runTUI(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(cfg.FeedPath)
	if err != nil {
		return err
	}

	opts := tui.Options{Brand: cfg.Brand, FromFile: flagFromFile}

	if flagItemsFile != "" {
		items, err := loadItems(flagItemsFile)
		if err != nil {
			return err
		}
		opts.FromFile = true
		opts.Items = items
	}

	if cmd.Flags().Changed("counterparty") {
		cp, err := cat.Resolve(flagCounterparty)
		if err != nil {
			return err
		}
		opts.Counterparty = &cp
	}

	return tui.Run(cat, host.NewGate(newSink()), opts)
}

// newSink picks the delivery path: the HTTP bridge with an outbox fallback
// when a host is configured, the outbox alone otherwise.
func newSink() host.Sink {
	outbox := host.NewOutbox(cfg.OutboxDir)
	if cfg.HostURL == "" {
		return outbox
	}
	return host.NewFallbackSink(host.NewBridge(cfg.HostURL, cfg.HostToken), outbox)
}

// loadItems reads an externally prepared item list. Supplied ids are kept
// as-is (any order) but must be unique; items without an id are numbered
// from the first free id in file order.
func loadItems(path string) ([]invoice.LineItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items file: %w", err)
	}
	var items []invoice.LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse items file %s: %w", path, err)
	}

	seen := make(map[int]bool, len(items))
	next := 1
	for _, it := range items {
		if it.ID == 0 {
			continue
		}
		if it.ID < 0 {
			return nil, fmt.Errorf("items file %s: invalid id %d", path, it.ID)
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("items file %s: duplicate id %d", path, it.ID)
		}
		seen[it.ID] = true
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	for i := range items {
		if items[i].ID != 0 {
			continue
		}
		items[i].ID = next
		seen[next] = true
		next++
	}
	return items, nil
}
