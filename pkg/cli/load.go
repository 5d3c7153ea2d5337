package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/jari1882/simkb/pkg/cli/config"
	"github.com/jari1882/simkb/pkg/service/loader"
	"github.com/jari1882/simkb/pkg/utils/logging"
)

func cmdLoad() *cli.Command {
	var repoCfg config.Repository
	var kbCfg config.KB

	var flags []cli.Flag
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, kbCfg.Flags()...)

	return &cli.Command{
		Name:  "load",
		Usage: "Load source data files into the knowledge base",
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

			summary, err := loader.New(repo, kbCfg.DataDir()).Load(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to load knowledge base")
			}

			logging.Default().Info("Knowledge base loaded",
				"organizations", summary.Organizations,
				"products", summary.Products,
				"roles", summary.Roles,
				"documents", summary.Documents,
				"offers", summary.Offers,
				"skipped_files", summary.SkippedFiles,
			)
			return nil
		},
	}
}
