// cmd/vendsight/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/andresuchdata/vendsight/internal/analytics"
	"github.com/andresuchdata/vendsight/internal/domain"
	"github.com/andresuchdata/vendsight/internal/export"
	"github.com/andresuchdata/vendsight/internal/ingest"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newInputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "input",
		Usage:    "Transaction CSV file or directory of CSV files",
		Required: true,
		EnvVars:  []string{"APP_INPUT_PATH"},
	}
}

func newSelectorKeyFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "selector-key",
		Usage:   "Machine selector column: machine_id or location_type",
		Value:   string(domain.SelectorByMachineID),
		EnvVars: []string{"APP_SELECTOR_KEY"},
	}
}

// buildSnapshot loads the batch named by --input and runs the full pipeline.
func buildSnapshot(c *cli.Context) (*analytics.Snapshot, error) {
	key, ok := domain.ParseSelectorKey(c.String("selector-key"))
	if !ok {
		return nil, fmt.Errorf("invalid selector key %q", c.String("selector-key"))
	}

	path := c.String("input")
	info, err := os.Stat(path)
	if err != nil {
		return nil, &domain.LoadError{File: path, Err: err}
	}

	var records []domain.TransactionRecord
	if info.IsDir() {
		records, err = ingest.LoadDir(c.Context, path)
	} else {
		records, err = ingest.Load(path)
	}
	if err != nil {
		return nil, err
	}

	return analytics.Build(records, key)
}

func runOrders(c *cli.Context) error {
	snap, err := buildSnapshot(c)
	if err != nil {
		return err
	}

	orders := snap.Orders
	if machine := c.String("machine"); machine != "" && machine != domain.SelectorAll {
		filtered := make([]domain.OrderLine, 0)
		for _, line := range orders {
			if line.SelectorValue(snap.SelectorKey) == machine {
				filtered = append(filtered, line)
			}
		}
		orders = filtered
	}

	if output := c.String("output"); output != "" {
		if err := export.WriteOrderLines(output, orders); err != nil {
			return err
		}
		log.Printf("Wrote %d order lines to %s", len(orders), output)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MACHINE\tLOCATION\tPRODUCT\tCATEGORY\tSTOCK\tRECOMMENDED\tORDER")
	for _, l := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			l.MachineID, l.LocationType, l.ProductName, l.Category,
			l.CurrentStockLevel, l.RecommendedStockLevel, l.OrderQuantity)
	}
	return w.Flush()
}

func runSummary(c *cli.Context) error {
	snap, err := buildSnapshot(c)
	if err != nil {
		return err
	}

	if output := c.String("output"); output != "" {
		if err := export.WritePolicies(output, snap.Policies); err != nil {
			return err
		}
		log.Printf("Wrote %d restock policies to %s", len(snap.Policies), output)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MACHINE\tPRODUCT\tUNITS\tDAYS\tAVG/DAY\tFREQ\tSAFETY\tRECOMMENDED")
	for _, p := range snap.Policies {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f\t%d\t%d\t%d\n",
			p.MachineID, p.ProductName, p.TotalUnitsSold, p.ActiveDays,
			p.AvgDailySales, p.RestockFrequencyDays, p.SafetyStock, p.RecommendedStockLevel)
	}
	return w.Flush()
}

func runSelectors(c *cli.Context) error {
	snap, err := buildSnapshot(c)
	if err != nil {
		return err
	}

	fmt.Println(domain.SelectorAll)
	for _, v := range snap.SelectorValues() {
		fmt.Println(v)
	}
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "vendsight",
		Usage: "Vending machine restock analytics over a transaction batch",
		Commands: []*cli.Command{
			{
				Name:  "orders",
				Usage: "Resolve order quantities and print or export them",
				Flags: []cli.Flag{
					newInputFlag(),
					newSelectorKeyFlag(),
					&cli.StringFlag{
						Name:  "machine",
						Usage: "Only include lines for this machine selector",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Write CSV here instead of printing a table",
					},
				},
				Action: runOrders,
			},
			{
				Name:  "summary",
				Usage: "Print or export the derived restock policies",
				Flags: []cli.Flag{
					newInputFlag(),
					newSelectorKeyFlag(),
					&cli.StringFlag{
						Name:  "output",
						Usage: "Write CSV here instead of printing a table",
					},
				},
				Action: runSummary,
			},
			{
				Name:  "selectors",
				Usage: "List the machine selector values in the batch",
				Flags: []cli.Flag{
					newInputFlag(),
					newSelectorKeyFlag(),
				},
				Action: runSelectors,
			},
		},
	}

	ctx := context.Background()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
