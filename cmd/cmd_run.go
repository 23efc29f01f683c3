package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/samber/do/v2"
	"github.com/solmint-labs/solmint/common/errs"
	"github.com/solmint-labs/solmint/internal/config"
	"github.com/solmint-labs/solmint/modules/tokenmint"
	"github.com/solmint-labs/solmint/pkg/automaxprocs"
	"github.com/solmint-labs/solmint/pkg/errorhandler"
	"github.com/solmint-labs/solmint/pkg/logger"
	"github.com/solmint-labs/solmint/pkg/logger/slogx"
	"github.com/solmint-labs/solmint/pkg/middleware/requestcontext"
	"github.com/solmint-labs/solmint/pkg/middleware/requestlogger"
	"github.com/solmint-labs/solmint/pkg/pinning"
	"github.com/solmint-labs/solmint/pkg/solanarpc"
	"github.com/solmint-labs/solmint/pkg/wallet"
	"github.com/spf13/cobra"
)

func NewRunCommand() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start solmint API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := automaxprocs.Init(); err != nil {
				logger.Error("Failed to set GOMAXPROCS", slogx.Error(err))
			}
			return runHandler(cmd, args)
		},
	}

	// Add local flags
	flags := runCmd.Flags()
	flags.Int("port", 8080, "Port to listen on")

	// Bind flags to configuration
	config.BindPFlag("http_server.port", flags.Lookup("port"))

	return runCmd
}

const shutdownTimeout = 60 * time.Second

func runHandler(cmd *cobra.Command, _ []string) error {
	conf := config.Load()

	// Validate inputs and configurations
	{
		if !conf.Network.IsSupported() {
			return errors.Wrapf(errs.Unsupported, "%q network is not supported", conf.Network.String())
		}
	}

	// Initialize application process context
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	injector := do.New()
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctx)

	// Initialize Solana RPC client with endpoint fallback
	do.Provide(injector, func(i do.Injector) (solanarpc.Contract, error) {
		conf := do.MustInvoke[config.Config](i)

		endpoint := conf.RPC.Endpoint
		if endpoint == "" {
			endpoint = conf.Network.DefaultEndpoint()
		}

		start := time.Now()
		logger.InfoContext(ctx, "Connecting to Solana RPC node...", slogx.String("endpoint", endpoint))
		client, selected, err := solanarpc.NewSelector().Select(ctx, endpoint, conf.RPC.BackupEndpoints...)
		if err != nil {
			return nil, errors.Wrap(err, "can't reach any RPC endpoint")
		}
		logger.InfoContext(ctx, "Connected to Solana RPC node",
			slogx.String("endpoint", selected),
			slog.Duration("latency", time.Since(start)),
		)
		return client, nil
	})

	// Initialize pinning client
	do.Provide(injector, func(i do.Injector) (*pinning.Client, error) {
		conf := do.MustInvoke[config.Config](i)
		if conf.Pinning.APIKey == "" {
			logger.WarnContext(ctx, "Pinning service is not configured, asset publishing is disabled")
			return nil, nil
		}

		pinner, err := pinning.New(conf.Pinning)
		if err != nil {
			return nil, errors.Wrap(err, "invalid pinning configuration")
		}
		return pinner, nil
	})

	// Initialize service wallet
	do.Provide(injector, func(i do.Injector) (wallet.Signer, error) {
		conf := do.MustInvoke[config.Config](i)
		switch {
		case conf.Wallet.PrivateKey != "":
			keypair, err := wallet.FromBase58(conf.Wallet.PrivateKey)
			if err != nil {
				return nil, errors.Wrap(err, "invalid wallet.private_key configuration")
			}
			return keypair, nil
		case conf.Wallet.KeypairPath != "":
			keypair, err := wallet.FromFile(conf.Wallet.KeypairPath)
			if err != nil {
				return nil, errors.Wrap(err, "invalid wallet.keypair_path configuration")
			}
			return keypair, nil
		default:
			logger.WarnContext(ctx, "Service wallet is not configured, token creation is disabled")
			return nil, nil
		}
	})

	// Initialize HTTP server
	do.Provide(injector, func(i do.Injector) (*fiber.App, error) {
		app := fiber.New(fiber.Config{
			AppName:      "Solmint",
			ErrorHandler: errorhandler.NewHTTPErrorHandler(),
		})
		app.
			Use(favicon.New()).
			Use(cors.New()).
			Use(requestid.New()).
			Use(requestcontext.New(
				requestcontext.WithRequestId(),
				requestcontext.WithClientIP(conf.HTTPServer.RequestIP),
			)).
			Use(requestlogger.New(conf.HTTPServer.Logger)).
			Use(fiberrecover.New(fiberrecover.Config{
				EnableStackTrace: true,
				StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
					buf := make([]byte, 1024) // bufLen = 1024
					buf = buf[:runtime.Stack(buf, false)]
					logger.ErrorContext(c.UserContext(), "Something went wrong, panic in http handler", slogx.Any("panic", e), slog.String("stacktrace", string(buf)))
				},
			})).
			Use(compress.New(compress.Config{
				Level: compress.LevelDefault,
			}))

		// Health check
		app.Get("/", func(c *fiber.Ctx) error {
			return errors.WithStack(c.SendStatus(http.StatusOK))
		})

		return app, nil
	})

	// Wire the token minting module and mount its API
	if _, err := tokenmint.New(injector); err != nil {
		return errors.Wrap(err, "can't init token mint module")
	}

	// Run API server
	httpServer := do.MustInvoke[*fiber.App](injector)
	go func() {
		// stop main process if API stopped
		defer stop()

		logger.InfoContext(ctx, "Started HTTP server", slog.Int("port", conf.HTTPServer.Port))
		if err := httpServer.Listen(fmt.Sprintf(":%d", conf.HTTPServer.Port)); err != nil {
			logger.PanicContext(ctx, "Something went wrong, error during running HTTP server", slogx.Error(err))
		}
	}()

	logger.InfoContext(ctx, "Solmint started", slogx.Stringer("network", conf.Network))

	// Wait for interrupt signal to gracefully stop the server
	<-ctx.Done()

	// Force shutdown if timeout exceeded or got signal again
	go func() {
		defer os.Exit(1)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.FatalContext(ctx, "Received exit signal again. Force shutdown...")
		case <-time.After(shutdownTimeout + 15*time.Second):
			logger.FatalContext(ctx, "Shutdown timeout exceeded. Force shutdown...")
		}
	}()

	if err := httpServer.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.ErrorContext(ctx, "Failed while shutting down HTTP server", slogx.Error(err))
	}
	if err := injector.Shutdown(); err != nil {
		logger.PanicContext(ctx, "Failed while gracefully shutting down", slogx.Error(err))
	}

	return nil
}
