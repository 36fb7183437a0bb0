// Command web serves the ChurnLens dashboard: it loads the customer
// dataset once, computes analytics on demand, and exposes the embedded
// single-page UI plus the JSON API on a local port.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"churnlens/internal/app"
	"churnlens/pkg/contracts"
)

func main() {
	configFile := flag.String("config", "", "path to config.yaml (defaults to well-known locations)")
	dataset := flag.String("dataset", "", "path to the customer CSV (overrides configuration)")
	port := flag.Int("port", 0, "listen port (overrides configuration)")
	noBrowser := flag.Bool("no-browser", false, "do not open the dashboard in the local browser")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	var opts []app.Option
	if *port > 0 {
		opts = append(opts, app.WithPort(*port))
	}
	if *noBrowser {
		opts = append(opts, app.WithoutBrowser())
	}

	application, err := app.NewApplication(*configFile, *dataset, opts...)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
