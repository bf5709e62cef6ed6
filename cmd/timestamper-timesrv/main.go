// Command timestamper-timesrv serves the current Unix time over HTTP for
// bench setups without internet access, and advertises itself over mDNS.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kso512/timestamper/internal/timesrv"
	"github.com/kso512/timestamper/internal/zeroconf"
)

var version = "dev"

func main() {
	var (
		addr     string
		mdnsName string
		noMDNS   bool
		fixed    int64
		debug    bool
	)
	rootCmd := &cobra.Command{
		Use:           "timestamper-timesrv",
		Short:         "Serve Unix time in the format the timestamper fetches",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logLevel := slog.LevelInfo
			if debug {
				logLevel = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

			now := timesrv.Clock(time.Now)
			if cmd.Flags().Changed("fixed") {
				now = timesrv.Fixed(fixed)
			}
			if mdnsName == "" {
				mdnsName, _ = os.Hostname()
			}
			return serve(cmd.Context(), addr, mdnsName, !noMDNS, now)
		},
	}

	f := rootCmd.Flags()
	f.StringVar(&addr, "addr", ":8080", "HTTP listen address")
	f.StringVar(&mdnsName, "mdns-name", "", "mDNS instance name (default: hostname)")
	f.BoolVar(&noMDNS, "no-mdns", false, "do not advertise over mDNS")
	f.Int64Var(&fixed, "fixed", 0, "always serve this Unix second")
	f.BoolVar(&debug, "debug", false, "enable debug logging")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("timesrv: exiting", "err", err)
		cancel()
		os.Exit(1)
	}
}

func serve(ctx context.Context, addr, name string, mdns bool, now timesrv.Clock) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	port := ln.Addr().(*net.TCPAddr).Port

	if mdns {
		zc := zeroconf.New(name, port, timesrv.SecondsPath)
		go func() {
			if err := zc.Start(ctx); err != nil {
				slog.Warn("timesrv: zeroconf failed", "err", err)
			}
		}()
	}

	srv := &http.Server{
		Handler:      timesrv.NewRouter(now),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		slog.Info("timesrv: listening", "addr", ln.Addr().String(), "path", timesrv.SecondsPath, "mdns", mdns)
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	slog.Info("timesrv: shutting down...")
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Warn("timesrv: shutdown error", "err", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("timesrv: shutdown complete", "port", port)
	return nil
}
