package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"medipulse/config"
	"medipulse/database"
	"medipulse/services/booking"
	"medipulse/services/tasks"
	"medipulse/utils"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "settle",
		Short: "Mark completed, unpaid appointments as settled in cash",
		Long: "Runs one settle-completed pass against the configured storage and prints the report.\n" +
			"With --enqueue the pass is queued for the worker instead of run here.",
		SilenceUsage: true,
		RunE:         run,
	}
	rootCmd.Flags().Bool("enqueue", false, "Queue the pass on the Redis task queue instead of running it inline")
	rootCmd.Flags().Duration("timeout", 5*time.Minute, "Maximum time for an inline pass")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if enqueue, _ := cmd.Flags().GetBool("enqueue"); enqueue {
		return enqueuePass(cfg)
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	store, err := database.OpenStorage(ctx, cfg.StorageDriver, cfg.DatabaseURL, cfg.DatabaseName, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close(context.Background()) }()

	svc := booking.NewBookingService(booking.Repositories{
		Doctors:      store.Doctors,
		Users:        store.Users,
		Appointments: store.Appointments,
		Audit:        store.Audit,
		Store:        store.Bookings,
	}, nil, logger)

	report, err := svc.SettleCompleted(ctx)
	if err != nil {
		logger.Error("settle pass failed", zap.Error(err))
		return err
	}
	out, _ := json.Marshal(report)
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func enqueuePass(cfg config.Config) error {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	})
	defer client.Close()

	task, opts, err := tasks.NewSettleCompletedTask("cli")
	if err != nil {
		return err
	}
	info, err := client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue settle pass: %w", err)
	}
	fmt.Printf("queued %s as %s\n", info.Type, info.ID)
	return nil
}
