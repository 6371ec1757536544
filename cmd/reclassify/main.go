// Command reclassify enqueues a deals:reclassify task for the running
// service to pick up.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"at_deals/internal/config"
	"at_deals/internal/worker"
	"at_deals/pkg/logx"
)

func main() {
	batch := flag.Int("batch", 500, "rows per page")
	dryRun := flag.Bool("dry-run", false, "count changes without writing")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logx.NewLogger(os.Stdout, "info", "text")
	slog.SetDefault(log)

	if err := run(ctx, log, worker.ReclassifyPayload{BatchSize: *batch, DryRun: *dryRun}); err != nil {
		log.Error("enqueue failed", logx.Error(err))
		os.Exit(1)
	}
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func run(ctx context.Context, log *slog.Logger, p worker.ReclassifyPayload) error {
	cfg, err := config.LoadRedis()
	if err != nil {
		return err
	}

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DatabaseNumber,
	})
	defer client.Close()

	return enqueue(ctx, log, client, p)
}

func enqueue(ctx context.Context, log *slog.Logger, client enqueuer, p worker.ReclassifyPayload) error {
	task, err := worker.NewReclassifyTask(p)
	if err != nil {
		return err
	}

	info, err := client.EnqueueContext(ctx, task, asynq.Queue(worker.QueueDefault))
	if err != nil {
		return err
	}

	log.Info("reclassification enqueued", slog.String("task-id", info.ID), slog.String("queue", info.Queue))

	return nil
}
