package main

import (
	"fmt"
	"time"

	"github.com/relaynet/relaynet/internal/channel"
	"github.com/relaynet/relaynet/internal/channel/clock"
	"github.com/relaynet/relaynet/internal/channel/receiver"
	"github.com/relaynet/relaynet/pkg/config"
	"github.com/relaynet/relaynet/pkg/logging"
	"github.com/relaynet/relaynet/pkg/transport"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveKind    string
	serveLatency time.Duration
	serveJitter  time.Duration
	serveLoss    float64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "bind a UDP socket and print delivered messages as they arrive",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveKind, "kind", "ordered-reliable",
		"delivery flavor: ordered-reliable, unordered-reliable, unordered-unreliable, sequenced-unreliable")
	serveCmd.Flags().DurationVar(&serveLatency, "latency", 0, "simulated one-way latency")
	serveCmd.Flags().DurationVar(&serveJitter, "jitter", 0, "simulated latency jitter")
	serveCmd.Flags().Float64Var(&serveLoss, "loss", 0, "simulated packet loss probability, 0..1")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := logging.Configure(cfg.Debug, logFileOptions(cfg)); err != nil {
		return err
	}
	defer logging.Sync()

	kind, err := parseKind(serveKind)
	if err != nil {
		return err
	}

	udp, err := transport.NewUDPAdapter(cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("serve: bind %s: %w", cfg.ListenAddr, err)
	}

	adapter := transport.Adapter(udp)
	if serveLatency > 0 || serveJitter > 0 || serveLoss > 0 {
		adapter = transport.NewConditioner(udp, transport.ConditionerConfig{
			Latency:         serveLatency,
			Jitter:          serveJitter,
			LossProbability: serveLoss,
		})
	}
	defer adapter.Close()

	ch := channel.New(kind, adapter, clock.Real(), uint32(cfg.MaxFragmentsPerMessage))
	logging.Info("serve: listening", zap.String("addr", cfg.ListenAddr), zap.Stringer("kind", kind))

	// The timer only signals that cleanup is due; Cleanup itself runs on
	// this goroutine alongside Pump, since Channel holds no lock.
	cleanupDue := make(chan struct{}, 1)
	timers := transport.NewTimerManager()
	defer timers.Stop()
	timers.SchedulePeriodic("fragment-cleanup", cfg.CleanupInterval, func() {
		select {
		case cleanupDue <- struct{}{}:
		default:
		}
	})

	for {
		ch.Pump()
		select {
		case <-cleanupDue:
			ch.Cleanup(cfg.FragmentMaxAge)
		default:
		}
		for {
			msg, ok := ch.ReadMessage()
			if !ok {
				break
			}
			fmt.Printf("%s\n", msg)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func parseKind(s string) (receiver.Kind, error) {
	switch s {
	case "ordered-reliable":
		return receiver.OrderedReliable, nil
	case "unordered-reliable":
		return receiver.UnorderedReliable, nil
	case "unordered-unreliable":
		return receiver.UnorderedUnreliable, nil
	case "sequenced-unreliable":
		return receiver.SequencedUnreliable, nil
	default:
		return 0, fmt.Errorf("serve: unknown --kind %q", s)
	}
}

func logFileOptions(cfg config.Config) *logging.FileOptions {
	if cfg.LogFile == "" {
		return nil
	}
	return &logging.FileOptions{Path: cfg.LogFile}
}
