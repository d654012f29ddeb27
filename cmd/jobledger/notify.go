package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobledger/internal/config"
	"github.com/amishk599/jobledger/internal/notifier"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification subcommands",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification",
	Long:  "Sends a sample stored record through the configured notifier, bypassing the filters.",
	RunE:  runNotifyTest,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyTestCmd)
}

func runNotifyTest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoad(logger)

	// Test the transport only.
	cfg.Filters = config.FilterConfig{}
	cfg.Notification.OnlyNew = false

	n := buildNotifier(cfg, logger)
	if n == nil {
		logger.Error("notifications are disabled (notification.type is \"none\")")
		os.Exit(1)
	}
	if err := notifier.SendTestMessage(n); err != nil {
		logger.Error("test notification failed", "error", err)
		os.Exit(1)
	}
	logger.Info("test notification sent successfully")
	return nil
}
