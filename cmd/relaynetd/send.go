package main

import (
	"fmt"
	"net"

	"github.com/relaynet/relaynet/internal/channel"
	"github.com/relaynet/relaynet/internal/channel/clock"
	"github.com/relaynet/relaynet/internal/channel/messageid"
	"github.com/relaynet/relaynet/pkg/config"
	"github.com/relaynet/relaynet/pkg/logging"
	"github.com/relaynet/relaynet/pkg/transport"
	"github.com/spf13/cobra"
)

var sendKind string

var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "send a single message to the configured remote_addr over UDP and exit",
	Args:  cobra.ExactArgs(1),
	RunE:  runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendKind, "kind", "ordered-reliable",
		"delivery flavor: ordered-reliable, unordered-reliable, unordered-unreliable, sequenced-unreliable")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := logging.Configure(cfg.Debug, logFileOptions(cfg)); err != nil {
		return err
	}
	defer logging.Sync()

	if cfg.RemoteAddr == "" {
		return fmt.Errorf("send: no remote_addr configured")
	}
	kind, err := parseKind(sendKind)
	if err != nil {
		return err
	}

	remote, err := net.ResolveUDPAddr("udp", cfg.RemoteAddr)
	if err != nil {
		return fmt.Errorf("send: resolve %s: %w", cfg.RemoteAddr, err)
	}

	udp, err := transport.NewUDPAdapter(":0")
	if err != nil {
		return fmt.Errorf("send: bind ephemeral socket: %w", err)
	}
	defer udp.Close()

	ch := channel.New(kind, udp, clock.Real(), uint32(cfg.MaxFragmentsPerMessage))
	return ch.Send(messageid.ID(0), []byte(args[0]), remote)
}
