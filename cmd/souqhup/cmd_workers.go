package main

import (
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/souqhup/internal/server"
)

var queueWorkersFlag int

// souqhup queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Process queued jobs without serving HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}
		return server.Work(workers)
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}
