package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luma/voxelwire/conn"
	"github.com/luma/voxelwire/internal/debug"
	"github.com/luma/voxelwire/internal/env"
	"github.com/luma/voxelwire/protocol"
	"github.com/luma/voxelwire/transport"
)

var (
	// The host to listen on
	host string

	// The port to listen for http requests on
	httpPort string

	// The port to listen for game clients on
	port int
)

func init() {
	flags := StartCmd.PersistentFlags()

	flags.IntVarP(&port, "port", "p", 30000, "The port to listen for game clients on")
	flags.StringVar(&httpPort, "http-port", "30001", "The port to listen to HTTP requests on")
	flags.StringVarP(&host, "host", "a", "0.0.0.0", "The host to listen on")
}

var StartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start up the voxelwire server",
	Long: `Start up the voxelwire server

Usage
	voxelwire start

`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, signalStop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
		defer signalStop()

		conf, err := env.LoadConfig(ctx)
		if err != nil {
			return err
		}

		log, err := env.MakeLogger(conf.Trace)
		if err != nil {
			return err
		}

		fileLimit, err := setFileLimit()
		if err != nil {
			return err
		}

		log.Info("Set file limit", zap.Uint64("fileLimit", fileLimit))

		udp, err := transport.NewUDP(transport.Options{
			Host:      host,
			Port:      port,
			Reuseport: true,
			Trace:     conf.Trace,
			Log:       log.Named("transport"),
		})
		if err != nil {
			return err
		}

		server := conn.NewServer(log, clock.New(), udp, conf.PeerConfig())
		if err := server.Start(ctx); err != nil {
			return err
		}

		router := debug.NewRouter(server, conf.DebugHTTP, log)

		s := &http.Server{
			Addr:    net.JoinHostPort(host, httpPort),
			Handler: router,
		}

		// Initializing the server in a goroutine so that
		// it won't block the graceful shutdown handling below
		go func() {
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Http server errored", zap.Error(err))
			}
		}()

		// The engine only moves commands; without a game on top, log
		// what arrives so the daemon is useful for soak testing.
		go func() {
			for ev := range server.Events() {
				switch ev.Kind {
				case conn.EventPeerJoined:
					log.Info("Peer joined",
						zap.Uint16("id", uint16(ev.PeerID)),
						zap.String("addr", ev.Addr.String()))

				case conn.EventPeerLeft:
					log.Info("Peer left",
						zap.Uint16("id", uint16(ev.PeerID)),
						zap.NamedError("reason", ev.Err))

				case conn.EventCommand:
					log.Info("Command",
						zap.Uint16("id", uint16(ev.PeerID)),
						zap.String("command", protocol.CommandName(ev.Cmd)))
				}
			}
		}()

		<-ctx.Done()

		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.SetKeepAlivesEnabled(false)

		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Error("Http server forced to shutdown", zap.Error(err))
		}

		if err := server.Close(); err != nil {
			log.Error("Server forced to shutdown", zap.Error(err))
		}

		log.Info("Exiting")
		return nil
	},
}

func setFileLimit() (uint64, error) {
	var rLimit syscall.Rlimit

	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, err
	}

	rLimit.Cur = rLimit.Max
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, err
	}

	return rLimit.Cur, nil
}
