// Command server runs the sports-booking API: the HTTP surface, the
// WebSocket hub, the RabbitMQ consumer and the asynq worker all live
// in one process.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "server",
		Short: "Sports court booking backend",
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
