package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/camp-builder/internal/config"
	"github.com/askiada/camp-builder/internal/httpapi"
	"github.com/askiada/camp-builder/internal/mcpserver"
)

// ErrNothingToServe is returned when both transports are disabled.
var ErrNothingToServe = errors.New("nothing to serve: enable mcp or set an http address")

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over MCP stdio and optionally HTTP",
		Args:  cobra.NoArgs,
		RunE:  a.serve,
	}

	cmd.Flags().String("http", "", "HTTP listen address, disabled when empty")
	cmd.Flags().Bool("mcp", true, "serve MCP on stdio")
	_ = a.viper.BindPFlag(config.KeyHTTPAddr, cmd.Flags().Lookup("http"))
	_ = a.viper.BindPFlag(config.KeyMCPEnabled, cmd.Flags().Lookup("mcp"))

	return cmd
}

func (a *app) serve(cmd *cobra.Command, _ []string) error {
	if !a.cfg.MCP.Enabled && a.cfg.HTTP.Addr == "" {
		return ErrNothingToServe
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher := a.dispatcher()
	group, groupCtx := errgroup.WithContext(ctx)

	if a.cfg.MCP.Enabled {
		srv, err := mcpserver.New(dispatcher, a.version)
		if err != nil {
			return err
		}

		group.Go(func() error {
			// the client closing stdin ends the whole process
			defer stop()

			return srv.Serve(groupCtx, cmd.InOrStdin(), cmd.OutOrStdout(), a.logger)
		})
	}

	if a.cfg.HTTP.Addr != "" {
		gin.SetMode(gin.ReleaseMode)

		srv := httpapi.New(dispatcher,
			httpapi.WithAddress(a.cfg.HTTP.Addr),
			httpapi.WithRequestSizeLimit(a.cfg.HTTP.RequestSizeLimit),
			httpapi.WithLogger(a.logger),
		)

		group.Go(func() error {
			return srv.Serve(groupCtx)
		})
	}

	return group.Wait()
}
