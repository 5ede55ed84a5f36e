package cmd

import (
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tam-lang/tam/internal/errors"
	"github.com/tam-lang/tam/internal/server"
)

func (a *app) newServeCmd() *cobra.Command {
	var addr string
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve validation over HTTP/3",
		Long: `Start an HTTP/3 endpoint. POST a source to /v1/check to validate it.

Without serve.cert_file and serve.key_file a self-signed certificate is
generated for the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Serve.Addr = addr
			}
			tlsCfg, err := a.serverTLS()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.NewHTTP3Server(a.cfg.Serve.Addr, tlsCfg, server.Handler(a.logger))
			bound, err := srv.Start()
			if err != nil {
				return errors.Wrap(err, errors.CategorySystem, errors.CodeListenFailed, "listen on "+a.cfg.Serve.Addr)
			}
			fmt.Fprintf(a.stdout, "serving HTTP/3 on https://%s\n", bound)

			select {
			case <-ctx.Done():
			case <-srv.Done():
			}
			a.logger.Info("shutting down")
			return srv.Stop()
		},
	}
	c.Flags().StringVar(&addr, "addr", "", "listen address (overrides serve.addr)")
	return c
}

func (a *app) serverTLS() (*tls.Config, error) {
	s := a.cfg.Serve
	if s.CertFile != "" || s.KeyFile != "" {
		cfg, err := server.LoadTLSConfig(s.CertFile, s.KeyFile)
		if err != nil {
			return nil, errors.InvalidConfig(a.cfg.Path(), err)
		}
		return cfg, nil
	}

	host, _, err := net.SplitHostPort(s.Addr)
	if err != nil {
		return nil, errors.InvalidConfig(a.cfg.Path(), err)
	}
	if host == "" {
		host = "localhost"
	}
	a.logger.Warn("no certificate configured, using a self-signed one for %s", host)
	return server.SelfSignedTLS([]string{host}, 24*time.Hour)
}
