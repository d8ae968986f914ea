package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/config"
	"github.com/shashiranjanraj/souqhup/internal/server"
	"github.com/shashiranjanraj/souqhup/pkg/event"
	"github.com/shashiranjanraj/souqhup/pkg/logger"
)

var mongoSink *logger.MongoHandler

// setupLogging loads config and installs the logger. Records are copied
// to MongoDB when MONGO_URI is set.
func setupLogging(*cobra.Command, []string) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var extra []slog.Handler
	if uri := config.MongoURI(); uri != "" {
		h, err := logger.NewMongoHandler(uri, config.MongoDB(), "logs", slog.LevelInfo)
		if err != nil {
			fmt.Fprintln(os.Stderr, "mongo log sink disabled:", err)
		} else {
			mongoSink = h
			extra = append(extra, h)
		}
	}
	logger.Setup(config.AppEnv(), os.Stdout, extra...)
	return nil
}

func closeLogging() {
	if mongoSink != nil {
		mongoSink.Close()
	}
}

// souqhup serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP, websocket and gRPC servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// souqhup route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List every registered route",
	RunE: func(cmd *cobra.Command, args []string) error {
		routes, err := server.RouteTable()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range routes {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

// souqhup flags
var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Show the feature flags the server will start with",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := services.NewFlagService(config.FeatureFlags(), event.NewBus()).List()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "SERVICE\tSLUG\tENABLED\tPROTECTED")
		for _, f := range flags {
			fmt.Fprintf(w, "%s\t%s\t%t\t%t\n", f.Service, f.Slug, f.Enabled, f.Protected)
		}
		return w.Flush()
	},
}
