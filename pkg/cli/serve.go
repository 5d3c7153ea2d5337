package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/jari1882/simkb/pkg/cli/config"
	httpctrl "github.com/jari1882/simkb/pkg/controller/http"
	"github.com/jari1882/simkb/pkg/service/index"
	"github.com/jari1882/simkb/pkg/service/loader"
	"github.com/jari1882/simkb/pkg/usecase"
	"github.com/jari1882/simkb/pkg/utils/async"
	"github.com/jari1882/simkb/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var indexOnStart bool
	var repoCfg config.Repository
	var llmCfg config.LLM
	var kbCfg config.KB

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("SIMKB_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "index-on-start",
			Usage:       "Build document embeddings in the background after startup",
			Sources:     cli.EnvVars("SIMKB_INDEX_ON_START"),
			Destination: &indexOnStart,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, kbCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			llm, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize LLM client")
			}

			// The in-memory backend starts empty, so the knowledge base is
			// loaded from the data directory on every boot. Firestore keeps
			// data across restarts; use the load command instead.
			if repoCfg.Backend() == "memory" {
				summary, err := loader.New(repo, kbCfg.DataDir()).Load(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to load knowledge base")
				}
				logging.Default().Info("Knowledge base loaded",
					"organizations", summary.Organizations,
					"documents", summary.Documents,
					"skipped_files", summary.SkippedFiles,
				)
			}

			if indexOnStart {
				indexer := index.New(repo, llm)
				async.Dispatch(ctx, func(ctx context.Context) error {
					summary, err := indexer.IndexAll(ctx)
					if err != nil {
						return goerr.Wrap(err, "background indexing failed")
					}
					logging.From(ctx).Info("Background indexing completed",
						"documents", summary.Documents,
						"chunks", summary.Chunks,
						"skipped_chunks", summary.SkippedChunks,
					)
					return nil
				})
			}

			uc := usecase.New(repo, llm)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
