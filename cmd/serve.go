package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shouni/go-manga-creator/internal/server"
)

// serveCmd は、ブラウザから漫画を生成できる Web UI を起動するのだ。
var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Web UI を起動するのだ。",
	Example: "  manga-creator serve --addr :8080",
	RunE:    serveCommand,
}

func init() {
	serveCmd.Flags().StringVar(&opts.Addr, "addr", "", "待ち受けアドレスなのだ（既定: SERVER_ADDR または localhost:8080）。")
	addRunFlags(serveCmd)
}

func serveCommand(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newAppContext(ctx)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Args{
		Runner:       app.Manager,
		Store:        app.Manager.Store(),
		Logger:       app.Logger,
		Options:      app.RunOptions(),
		RunTimeout:   app.Config.RunTimeout,
		CookieSecure: app.Config.CookieSecure,
	})
	if err != nil {
		return fmt.Errorf("Web サーバーの初期化に失敗したのだ: %w", err)
	}

	if err := srv.Run(ctx, app.Config.ServerAddr); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

