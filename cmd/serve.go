package cmd

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"symptomminder/internal/bootstrap"
	"symptomminder/internal/bootstrap/logging"
	"symptomminder/internal/errs"
)

// serveCmd starts the MCP server. With no address the session runs over
// stdio, the transport MCP clients spawn subprocesses with; an address
// switches to the streamable HTTP transport.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio or HTTP",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svcs appServices) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		addr, _ := cmd.Flags().GetString("addr")
		addr = strings.TrimSpace(addr)
		if addr == "" {
			addr = strings.TrimSpace(app.Config.Server.HTTPAddr)
		}

		if addr == "" {
			logging.Info(ctx, "mcp server started", slog.String("transport", "stdio"))
			if err := svcs.Server.RunStdio(ctx); err != nil {
				logging.Error(ctx, "mcp stdio session failed", slog.Any("err", errs.Loggable(err)))
				return errs.Wrap(err, "serve mcp over stdio")
			}
			return nil
		}

		server := &http.Server{
			Addr:    addr,
			Handler: svcs.Server.Handler(),
		}

		logging.Info(ctx, "mcp server started", slog.String("transport", "http"), slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx, "mcp http server failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "serve mcp over http")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "HTTP listen address (empty for stdio)")
}
