package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ecordell/optgen/helpers"
	"github.com/gin-gonic/gin"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	v1 "github.com/pringinacio/ivxv/api/v1"
	"github.com/pringinacio/ivxv/internal/config"
	"github.com/pringinacio/ivxv/internal/handlers"
	"github.com/pringinacio/ivxv/internal/server"
	"github.com/pringinacio/ivxv/internal/services"
)

func NewServeCommand(cfg *config.Configuration) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only diagnostics API",
		Example: `  # Serve on the default port
  ivxv-admin serve

  # Serve in production mode on port 9090
  ivxv-admin serve --server-mode prod --server-http-port 9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateServerConfiguration(cfg); err != nil {
				return err
			}

			zap.S().Infow("using configuration",
				"store", helpers.Flatten(cfg.Store.DebugMap()),
				"server", helpers.Flatten(cfg.Server.DebugMap()),
			)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
			defer cancel()

			s, err := openStore(ctx, cfg)
			if err != nil {
				zap.S().Errorw("failed to initialize database", "error", err)
				return err
			}
			defer func() { _ = s.Close() }()
			zap.S().Info("database initialized successfully")

			h := handlers.New(services.NewStatusService(services.NewSelector(s.Values())))
			srv := server.NewServer(cfg.Server, func(router *gin.RouterGroup) {
				v1.RegisterHandlers(router, h)
			})

			wg := sync.WaitGroup{}
			wg.Add(1)
			var serveErr error
			go func() {
				defer func() {
					wg.Done()
					cancel()
				}()
				zap.S().Infof("Starting HTTP server on port %d", cfg.Server.HTTPPort)
				serveErr = srv.Start()
			}()

			<-ctx.Done()
			stopCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
			defer stop()
			srv.Stop(stopCtx)
			wg.Wait()

			zap.S().Info("server shutdown")
			return serveErr
		},
	}

	nfs := cobrautil.NewNamedFlagSets(serveCmd)
	registerServerFlags(nfs.FlagSet(flagSetTitle("Server")), cfg)
	registerStoreFlags(nfs.FlagSet(flagSetTitle("Store")), cfg)
	nfs.AddFlagSets(serveCmd)

	return serveCmd
}

func validateServerConfiguration(cfg *config.Configuration) error {
	switch cfg.Server.ServerMode {
	case config.ServerModeProd, config.ServerModeDev:
	default:
		return fmt.Errorf("invalid server mode %q: must be %q or %q", cfg.Server.ServerMode, config.ServerModeProd, config.ServerModeDev)
	}

	if cfg.Server.HTTPPort < 1 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http-port %d: must be between 1 and 65535", cfg.Server.HTTPPort)
	}

	return nil
}

func registerServerFlags(flagSet *pflag.FlagSet, config *config.Configuration) {
	flagSet.IntVar(&config.Server.HTTPPort, "server-http-port", config.Server.HTTPPort, "Port on which the HTTP server is listening")
	flagSet.StringVar(&config.Server.ServerMode, "server-mode", config.Server.ServerMode, "Server mode: either prod or dev")
}
