package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/jari1882/simkb/pkg/cli/config"
	"github.com/jari1882/simkb/pkg/service/index"
	"github.com/jari1882/simkb/pkg/utils/logging"
)

func cmdIndex() *cli.Command {
	var chunkSize int
	var chunkOverlap int
	var concurrency int
	var repoCfg config.Repository
	var llmCfg config.LLM

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "chunk-size",
			Usage:       "Maximum characters per document chunk",
			Value:       index.DefaultChunkSize,
			Sources:     cli.EnvVars("SIMKB_CHUNK_SIZE"),
			Destination: &chunkSize,
		},
		&cli.IntFlag{
			Name:        "chunk-overlap",
			Usage:       "Characters of overlap between adjacent chunks",
			Value:       index.DefaultChunkOverlap,
			Sources:     cli.EnvVars("SIMKB_CHUNK_OVERLAP"),
			Destination: &chunkOverlap,
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Number of documents embedded in parallel",
			Value:       4,
			Sources:     cli.EnvVars("SIMKB_INDEX_CONCURRENCY"),
			Destination: &concurrency,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)

	return &cli.Command{
		Name:  "index",
		Usage: "Chunk and embed all documents for semantic search",
		Flags: flags,
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

			indexer := index.New(repo, llm,
				index.WithChunking(int(chunkSize), int(chunkOverlap)),
				index.WithConcurrency(int(concurrency)),
			)

			summary, err := indexer.IndexAll(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to index documents")
			}

			logging.Default().Info("Indexing completed",
				"documents", summary.Documents,
				"chunks", summary.Chunks,
				"skipped_chunks", summary.SkippedChunks,
			)
			return nil
		},
	}
}
