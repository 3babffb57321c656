// cmd/grocery/main.go
package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nagul-a/Grocery-tracker/internal/config"
	"github.com/nagul-a/Grocery-tracker/pkg/logger"
)

func main() {
	cfg := config.Load()
	if err := newApp(cfg).Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("grocery")
	}
}

func newApp(cfg *config.Config) *cli.App {
	return buildApp(newRuntime(cfg))
}

func buildApp(rt *runtime) *cli.App {
	cfg := rt.cfg
	return &cli.App{
		Name:  "grocery",
		Usage: "Inventory valuation, spending and restock analytics for the grocery catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "source",
				Usage:   "Item source: sql, mongo or snapshot",
				Value:   cfg.App.Source,
				EnvVars: []string{"ITEM_SOURCE"},
			},
			&cli.StringFlag{
				Name:  "user",
				Usage: "Only use items owned by this user id",
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "Only use items in this category",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   cfg.App.LogLevel,
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			cfg.App.Source = c.String("source")
			return nil
		},
		After: func(c *cli.Context) error {
			return rt.close()
		},
		Commands: commands(rt),
	}
}
