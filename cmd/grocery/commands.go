package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/nagul-a/Grocery-tracker/internal/analytics"
	"github.com/nagul-a/Grocery-tracker/internal/domain"
	"github.com/nagul-a/Grocery-tracker/internal/pipeline"
	"github.com/nagul-a/Grocery-tracker/internal/repository/snapshot"
)

func commands(rt *runtime) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "stats",
			Usage: "Inventory valuation statistics",
			Action: func(c *cli.Context) error {
				svc, err := rt.service(c.Context)
				if err != nil {
					return err
				}
				stats, err := svc.InventoryStatistics(c.Context, itemFilter(c))
				if err != nil {
					return err
				}
				return printJSON(c, stats)
			},
		},
		{
			Name:  "spending",
			Usage: "Spending over a trailing window",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "days", Usage: "Window length in days (1-365)", Value: rt.cfg.Analytics.SpendingWindowDays},
			},
			Action: func(c *cli.Context) error {
				svc, err := rt.service(c.Context)
				if err != nil {
					return err
				}
				spending, err := svc.SpendingAnalytics(c.Context, itemFilter(c), c.Int("days"))
				if err != nil {
					return err
				}
				return printJSON(c, spending)
			},
		},
		{
			Name:  "consumption",
			Usage: "Estimate how often an item is bought and when it is due next",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "item", Usage: "Item name", Required: true},
			},
			Action: func(c *cli.Context) error {
				svc, err := rt.service(c.Context)
				if err != nil {
					return err
				}
				estimate, err := svc.ConsumptionRate(c.Context, itemFilter(c), c.String("item"))
				if err != nil {
					return err
				}
				return printJSON(c, estimate)
			},
		},
		{
			Name:  "suggestions",
			Usage: "Ranked restock suggestions",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "limit", Usage: "Maximum number of suggestions", Value: rt.cfg.Analytics.SuggestionLimit},
			},
			Action: func(c *cli.Context) error {
				svc, err := rt.service(c.Context)
				if err != nil {
					return err
				}
				suggestions, err := svc.Suggestions(c.Context, itemFilter(c), c.Int("limit"))
				if err != nil {
					return err
				}
				return printJSON(c, suggestions)
			},
		},
		{
			Name:  "frequent",
			Usage: "Frequently bought items that are out of stock",
			Action: func(c *cli.Context) error {
				svc, err := rt.service(c.Context)
				if err != nil {
					return err
				}
				frequent, err := svc.FrequentPurchases(c.Context, itemFilter(c))
				if err != nil {
					return err
				}
				return printJSON(c, frequent)
			},
		},
		{
			Name:  "dashboard",
			Usage: "Every analytics view in one document",
			Action: func(c *cli.Context) error {
				svc, err := rt.service(c.Context)
				if err != nil {
					return err
				}
				dashboard, err := svc.Dashboard(c.Context, itemFilter(c))
				if err != nil {
					return err
				}
				return printJSON(c, dashboard)
			},
		},
		{
			Name:  "notifications",
			Usage: "Expiry, low-stock and restock alerts",
			Action: func(c *cli.Context) error {
				svc, err := rt.service(c.Context)
				if err != nil {
					return err
				}
				notifications, err := svc.Notifications(c.Context, itemFilter(c))
				if err != nil {
					return err
				}
				return printJSON(c, notifications)
			},
		},
		{
			Name:  "expiring",
			Usage: "Items expiring soon, soonest first",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "days", Usage: "Look-ahead in days", Value: rt.cfg.Analytics.ExpiringWithinDays},
			},
			Action: func(c *cli.Context) error {
				svc, err := rt.service(c.Context)
				if err != nil {
					return err
				}
				items, err := svc.ExpiringItems(c.Context, itemFilter(c), c.Int("days"))
				if err != nil {
					return err
				}
				return printJSON(c, items)
			},
		},
		{
			Name:  "status",
			Usage: "Expiry and stock status of every item",
			Action: func(c *cli.Context) error {
				svc, err := rt.service(c.Context)
				if err != nil {
					return err
				}
				items, err := svc.Items(c.Context, itemFilter(c))
				if err != nil {
					return err
				}
				return printJSON(c, itemStatuses(items, rt.cfg.Analytics.LowStockThreshold, rt.cfg.Analytics.MediumStockThreshold, time.Now().UTC()))
			},
		},
		{
			Name:  "meals",
			Usage: "Meals that can be cooked from what is in stock",
			Action: func(c *cli.Context) error {
				svc, err := rt.service(c.Context)
				if err != nil {
					return err
				}
				meals, err := svc.Meals(c.Context, itemFilter(c))
				if err != nil {
					return err
				}
				return printJSON(c, meals)
			},
		},
		{
			Name:      "recipe",
			Usage:     "Recipe details for a suggested meal",
			ArgsUsage: "<meal name>",
			Action: func(c *cli.Context) error {
				meal := strings.Join(c.Args().Slice(), " ")
				recipe, ok := analytics.RecipeDetails(meal)
				if !ok {
					return cli.Exit(fmt.Sprintf("no recipe for %q", meal), 1)
				}
				return printJSON(c, recipe)
			},
		},
		{
			Name:      "alternatives",
			Usage:     "Healthier swaps for an item",
			ArgsUsage: "<item name>",
			Action: func(c *cli.Context) error {
				return printJSON(c, analytics.HealthierAlternatives(strings.Join(c.Args().Slice(), " ")))
			},
		},
		{
			Name:      "prices",
			Usage:     "Compare an item's price across stores",
			ArgsUsage: "<item name>",
			Action: func(c *cli.Context) error {
				prices, err := analytics.ComparePrices(strings.Join(c.Args().Slice(), " "))
				if err != nil {
					return err
				}
				return printJSON(c, prices)
			},
		},
		{
			Name:      "deals",
			Usage:     "Cheapest store for each item of a shopping list",
			ArgsUsage: "<item> [item...]",
			Action: func(c *cli.Context) error {
				return printJSON(c, analytics.BestDeals(c.Args().Slice()))
			},
		},
		{
			Name:  "search",
			Usage: "Search items by name with typo tolerance",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Search text"},
				&cli.IntFlag{Name: "limit", Usage: "Maximum number of results", Value: analytics.DefaultSearchLimit},
			},
			Action: func(c *cli.Context) error {
				svc, err := rt.service(c.Context)
				if err != nil {
					return err
				}
				results, err := svc.Search(c.Context, itemFilter(c), c.String("query"), c.Int("limit"))
				if err != nil {
					return err
				}
				return printJSON(c, results)
			},
		},
		{
			Name:  "validate",
			Usage: "Validate an item record given as a JSON object",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "file", Usage: "JSON file with one item, - for stdin", Value: "-"},
			},
			Action: func(c *cli.Context) error {
				var raw domain.RawItem
				if err := readJSON(c, c.String("file"), &raw); err != nil {
					return err
				}
				result := analytics.ValidateItem(raw, time.Now().UTC())
				if err := printJSON(c, result); err != nil {
					return err
				}
				if !result.IsValid {
					return cli.Exit("item is invalid", 1)
				}
				return nil
			},
		},
		{
			Name:  "seed",
			Usage: "Load items from a JSON array into the current source",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "file", Usage: "JSON file with an array of items, - for stdin", Required: true},
			},
			Action: func(c *cli.Context) error {
				var raws []domain.RawItem
				if err := readJSON(c, c.String("file"), &raws); err != nil {
					return err
				}
				items, issues := analytics.NormalizeItems(raws)
				if len(issues) > 0 {
					log.Warn().Int("fields", len(issues)).Msg("seed: some fields were unusable and will be stored empty")
				}

				store, err := rt.itemStore(c.Context)
				if err != nil {
					return err
				}
				written, err := store.SaveItems(c.Context, items)
				if err != nil {
					return fmt.Errorf("error seeding items: %w", err)
				}
				log.Info().Int("items", written).Msg("seed: completed")
				return printJSON(c, map[string]int{"written": written})
			},
		},
		{
			Name:  "report",
			Usage: "Build dashboards and upload them to object storage",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{Name: "users", Usage: "One report per user; defaults to the --user filter"},
				&cli.IntFlag{Name: "workers", Usage: "Concurrent report builders", Value: 4},
			},
			Action: func(c *cli.Context) error {
				svc, err := rt.service(c.Context)
				if err != nil {
					return err
				}
				objects, err := rt.objectStorage(c.Context)
				if err != nil {
					return err
				}

				cfg := pipeline.DefaultReportConfig(rt.cfg.Storage.ReportPrefix)
				cfg.WorkerCount = c.Int("workers")
				run, err := pipeline.NewWorker(svc, objects, cfg).Run(c.Context, itemFilter(c), c.StringSlice("users"))
				if run != nil {
					if perr := printJSON(c, run); perr != nil {
						return perr
					}
				}
				return err
			},
		},
		{
			Name:  "snapshot",
			Usage: "Catalog snapshots in object storage",
			Subcommands: []*cli.Command{
				{
					Name:  "export",
					Usage: "Publish the current source's items as a snapshot object",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "key", Usage: "Object key; .csv writes CSV, anything else JSON", Value: rt.cfg.Storage.SnapshotKey},
					},
					Action: func(c *cli.Context) error {
						svc, err := rt.service(c.Context)
						if err != nil {
							return err
						}
						items, err := svc.Items(c.Context, itemFilter(c))
						if err != nil {
							return err
						}
						objects, err := rt.objectStorage(c.Context)
						if err != nil {
							return err
						}
						written, err := snapshot.NewStore(objects, c.String("key")).SaveItems(c.Context, items)
						if err != nil {
							return err
						}
						return printJSON(c, map[string]any{"key": c.String("key"), "written": written})
					},
				},
				{
					Name:  "download",
					Usage: "Download a snapshot object to a local file",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "key", Value: rt.cfg.Storage.SnapshotKey},
						&cli.StringFlag{Name: "out", Usage: "Destination path", Required: true},
					},
					Action: func(c *cli.Context) error {
						objects, err := rt.objectStorage(c.Context)
						if err != nil {
							return err
						}
						return objects.DownloadObject(c.Context, c.String("key"), c.String("out"))
					},
				},
			},
		},
		{
			Name:  "cache",
			Usage: "Dashboard cache maintenance",
			Subcommands: []*cli.Command{
				{
					Name:  "flush",
					Usage: "Drop every cached dashboard",
					Action: func(c *cli.Context) error {
						svc, err := rt.service(c.Context)
						if err != nil {
							return err
						}
						n, err := svc.InvalidateCache(c.Context)
						if err != nil {
							return err
						}
						return printJSON(c, map[string]int{"deleted": n})
					},
				},
			},
		},
	}
}

func itemFilter(c *cli.Context) domain.ItemFilter {
	return domain.ItemFilter{UserID: c.String("user"), Category: c.String("category")}
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readJSON decodes name, or stdin when name is "-", keeping numbers as
// json.Number.
func readJSON(c *cli.Context, name string, v any) error {
	var r io.Reader
	if name == "-" || name == "" {
		r = c.App.Reader
	} else {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

type itemStatus struct {
	Item   domain.Item         `json:"item"`
	Expiry domain.ExpiryStatus `json:"expiry"`
	Stock  *domain.StockLevel  `json:"stock"`
}

func itemStatuses(items []domain.Item, low, medium int, now time.Time) []itemStatus {
	out := make([]itemStatus, 0, len(items))
	for _, item := range items {
		status := itemStatus{Item: item, Expiry: analytics.ExpiryStatusOf(item.ExpiryDate, now)}
		if item.Quantity != nil {
			level := analytics.StockLevelOf(*item.Quantity, low, medium)
			status.Stock = &level
		}
		out = append(out, status)
	}
	return out
}
