package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/draftmill/inkbase/pkg/cli/config"
	"github.com/draftmill/inkbase/pkg/domain/types"
	"github.com/draftmill/inkbase/pkg/usecase"
	"github.com/draftmill/inkbase/pkg/utils/logging"
)

func cmdIngest() *cli.Command {
	var userID string
	var kbID string
	var name string
	var repoCfg config.Repository
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Usage:       "Owner user ID",
			Required:    true,
			Sources:     cli.EnvVars("INKBASE_USER_ID"),
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "kb-id",
			Usage:       "Target knowledge base ID",
			Required:    true,
			Sources:     cli.EnvVars("INKBASE_KB_ID"),
			Destination: &kbID,
		},
		&cli.StringFlag{
			Name:        "name",
			Usage:       "Display name of the document (defaults to the file name)",
			Destination: &name,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:      "ingest",
		Usage:     "Chunk and embed a local file into a knowledge base",
		ArgsUsage: "<file>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("exactly one file argument is required")
			}
			path := c.Args().First()

			content, err := os.ReadFile(path)
			if err != nil {
				return goerr.Wrap(err, "failed to read input file", goerr.V("path", path))
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}
			if llmClient == nil {
				return goerr.New("gemini-project is required to ingest documents")
			}

			uc := usecase.New(repo, llmClient)

			result, err := uc.Ingest(ctx, &usecase.IngestRequest{
				UserID:          types.UserID(userID),
				KnowledgeBaseID: types.KnowledgeBaseID(kbID),
				Name:            name,
				FileName:        filepath.Base(path),
				Content:         string(content),
			})
			if err != nil {
				return goerr.Wrap(err, "ingestion failed", goerr.V("path", path))
			}

			logging.Default().Info("document ingested",
				"documentID", result.DocumentID,
				"chunks", result.ChunkCount,
			)
			return nil
		},
	}
}
