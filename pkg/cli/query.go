package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/jari1882/simkb/pkg/cli/config"
	"github.com/jari1882/simkb/pkg/service/index"
	"github.com/jari1882/simkb/pkg/service/loader"
	"github.com/jari1882/simkb/pkg/usecase"
	"github.com/jari1882/simkb/pkg/utils/logging"
)

const querySessionID = "local"

func cmdQuery() *cli.Command {
	var skipIndex bool
	var repoCfg config.Repository
	var llmCfg config.LLM
	var kbCfg config.KB

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "skip-index",
			Usage:       "Skip embedding documents at startup (semantic search will be empty)",
			Sources:     cli.EnvVars("SIMKB_SKIP_INDEX"),
			Destination: &skipIndex,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, kbCfg.Flags()...)

	return &cli.Command{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "Interactive question session against the knowledge base",
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

			if repoCfg.Backend() == "memory" {
				if _, err := loader.New(repo, kbCfg.DataDir()).Load(ctx); err != nil {
					return goerr.Wrap(err, "failed to load knowledge base")
				}
				if !skipIndex {
					fmt.Println("Embedding documents, this may take a moment...")
					if _, err := index.New(repo, llm).IndexAll(ctx); err != nil {
						return goerr.Wrap(err, "failed to index documents")
					}
				}
			}

			uc := usecase.New(repo, llm)
			return runQueryLoop(ctx, uc)
		},
	}
}

func runQueryLoop(ctx context.Context, uc *usecase.UseCase) error {
	promptColor := color.New(color.FgCyan, color.Bold)
	answerColor := color.New(color.FgGreen)
	noticeColor := color.New(color.FgYellow)

	fmt.Println("Ask about insurance carrier performance. Type \"help\" for commands, \"exit\" to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		promptColor.Print("you> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return nil
		case "clear", "reset":
			uc.Reset(querySessionID)
			noticeColor.Println("Conversation history cleared.")
			continue
		case "stats":
			stats, err := uc.Stats(ctx)
			if err != nil {
				noticeColor.Println("Failed to read knowledge base stats.")
				continue
			}
			fmt.Printf("organizations=%d products=%d roles=%d documents=%d offers=%d embeddings=%d\n",
				stats.Organizations, stats.Products, stats.Roles,
				stats.Documents, stats.Offers, stats.Embeddings)
			continue
		case "help":
			fmt.Println(uc.Help())
			continue
		}

		answer, err := uc.Chat(ctx, querySessionID, line)
		if err != nil {
			if errors.Is(err, usecase.ErrAssistantUnavailable) {
				noticeColor.Println("The assistant is temporarily unavailable. Please try again shortly.")
				continue
			}
			return err
		}

		answerColor.Println(answer)
	}
}
