package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/geohub/geod/internal/clearing"
	"github.com/geohub/geod/internal/eventbus"
	"github.com/geohub/geod/internal/obs"
	"github.com/geohub/geod/internal/payment"
	"github.com/geohub/geod/internal/payment/recovery"
	"github.com/geohub/geod/internal/payment/recovery/checkpoint"
	"github.com/geohub/geod/internal/router"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the geod node",
	Long:  "Opens the store, starts the recovery loop and the periodic clearing sweep, and blocks serving the gRPC event bus until interrupted.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadedConfig
	logger := obs.NewLogger(obs.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("serve: open store: %w", err)
	}
	defer s.Close()
	logger.Info("store opened", "driver", cfg.Store.Driver)

	bus := eventbus.New()

	rtr := router.New(s)
	paymentEngine := payment.New(s, rtr, payment.Config{
		PrepareDeadline: cfg.Protocol.PrepareDeadline,
		CommitDeadline:  cfg.Protocol.CommitDeadline,
		OverallDeadline: cfg.Protocol.OverallDeadline,
		PrepareLockTTL:  cfg.Protocol.PrepareLockTTL,
	})
	paymentEngine.SetEventBus(bus)

	clearingEngine := clearing.New(s, rtr, clearing.Config{
		TriggerCyclesMaxLen:      cfg.Clearing.TriggerCyclesMaxLen,
		PeriodicCyclesMaxLen:     cfg.Clearing.PeriodicCyclesMaxLen,
		MaxCyclesPerRun:          cfg.Clearing.MaxCyclesPerRun,
		OnDemandConsecutiveBreak: cfg.Clearing.OnDemandConsecutiveBreak,
		PeriodicInterval:         cfg.Clearing.PeriodicInterval,
	})
	clearingEngine.SetEventBus(bus)
	scheduler := clearing.NewScheduler(clearingEngine)

	var cp *checkpoint.Store
	if cfg.Recovery.Checkpoint != "" {
		cp, err = checkpoint.Open(cfg.Recovery.Checkpoint)
		if err != nil {
			return fmt.Errorf("serve: open recovery checkpoint: %w", err)
		}
		defer cp.Close()
	}
	recoveryLoop := recovery.New(s, paymentEngine, cp, recovery.Config{
		Interval:    cfg.Recovery.Interval,
		OrphanAfter: cfg.Recovery.OrphanAfter,
		SweepLimit:  cfg.Recovery.SweepLimit,
	})

	busServer, err := eventbus.NewServer(eventbus.Config{
		Address:        cfg.EventBus.Address,
		MaxRecvMsgSize: cfg.EventBus.MaxRecvMsgSize,
		MaxSendMsgSize: cfg.EventBus.MaxSendMsgSize,
	}, bus)
	if err != nil {
		return fmt.Errorf("serve: build event bus server: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return recoveryLoop.Run(gCtx) })
	g.Go(func() error { return scheduler.Run(gCtx) })
	g.Go(func() error {
		if !quiet {
			logger.Info("event bus listening", "address", cfg.EventBus.Address)
		}
		return busServer.Start()
	})
	g.Go(func() error {
		<-gCtx.Done()
		recoveryLoop.Stop()
		scheduler.Stop()
		busServer.Stop()
		return nil
	})

	if err := g.Wait(); err != nil && gCtx.Err() == nil {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("geod stopped")
	return nil
}
