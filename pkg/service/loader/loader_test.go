package loader_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/jari1882/simkb/pkg/domain/types"
	"github.com/jari1882/simkb/pkg/repository/memory"
	"github.com/jari1882/simkb/pkg/service/loader"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("loads every fixture type", func(t *testing.T) {
		repo := memory.New()
		summary := gt.R1(loader.New(repo, filepath.Join("testdata", "kb")).Load(ctx)).NoError(t)

		gt.Value(t, summary.Products).Equal(4)
		gt.Value(t, summary.Roles).Equal(2)
		gt.Value(t, summary.Documents).Equal(4)
		gt.Value(t, summary.Offers).Equal(2)
		gt.Array(t, summary.SkippedFiles).Length(1)

		// Carrier A appears in three sources but is one organization.
		orgCount := gt.R1(repo.Organization().Count(ctx)).NoError(t)
		gt.Value(t, orgCount).Equal(2)

		docCount := gt.R1(repo.Document().Count(ctx)).NoError(t)
		gt.Value(t, docCount).Equal(4)
	})

	t.Run("builds titles from file metadata", func(t *testing.T) {
		repo := memory.New()
		gt.R1(loader.New(repo, filepath.Join("testdata", "kb")).Load(ctx)).NoError(t)

		scorecards := gt.R1(repo.Document().FindByTitle(ctx, "Carrier A Annuity Scorecard 2026")).NoError(t)
		gt.Array(t, scorecards).Length(1)
		gt.Value(t, scorecards[0].Scorecard.AggregateScore).Equal(7.2)
		gt.Value(t, scorecards[0].Scorecard.Questions[0].Score).Equal(8.1)
		gt.Value(t, scorecards[0].Scorecard.Questions[0].PriorScore).Equal(7.9)

		questions := gt.R1(repo.Document().FindByTitle(ctx, "Underwriting - Annuity (2026)")).NoError(t)
		gt.Array(t, questions).Length(1)
		gt.Array(t, questions[0].QuestionScorecard.Results).Length(2)

		research := gt.R1(repo.Document().FindByTitle(ctx, "Carrier A - DR1: Market Position")).NoError(t)
		gt.Array(t, research).Length(1)
		gt.Value(t, research[0].Research.Sequence).Equal(1)

		production := gt.R1(repo.Document().FindByTitle(ctx, "Production History 2026")).NoError(t)
		gt.Array(t, production).Length(1)
		gt.Array(t, production[0].Production.Carriers).Length(2)
	})

	t.Run("links documents to carriers with typed relations", func(t *testing.T) {
		repo := memory.New()
		gt.R1(loader.New(repo, filepath.Join("testdata", "kb")).Load(ctx)).NoError(t)

		orgs := gt.R1(repo.Organization().FindByName(ctx, "Carrier A")).NoError(t)
		gt.Array(t, orgs).Length(1)

		// Scorecard, research and production history all link Carrier A.
		docs := gt.R1(repo.Document().ListByOrganization(ctx, orgs[0].ID)).NoError(t)
		gt.Array(t, docs).Length(3)
	})

	t.Run("reloading is idempotent", func(t *testing.T) {
		repo := memory.New()
		l := loader.New(repo, filepath.Join("testdata", "kb"))

		gt.R1(l.Load(ctx)).NoError(t)
		gt.R1(l.Load(ctx)).NoError(t)

		gt.Value(t, gt.R1(repo.Organization().Count(ctx)).NoError(t)).Equal(2)
		gt.Value(t, gt.R1(repo.Document().Count(ctx)).NoError(t)).Equal(4)
		gt.Value(t, gt.R1(repo.Role().Count(ctx)).NoError(t)).Equal(2)
		gt.Value(t, gt.R1(repo.Product().Count(ctx)).NoError(t)).Equal(4)
		gt.Value(t, gt.R1(repo.Offer().Count(ctx)).NoError(t)).Equal(2)
	})

	t.Run("roles carry the persona profile", func(t *testing.T) {
		repo := memory.New()
		gt.R1(loader.New(repo, filepath.Join("testdata", "kb")).Load(ctx)).NoError(t)

		roles := gt.R1(repo.Role().FindByName(ctx, "CPO")).NoError(t)
		gt.Array(t, roles).Length(1)
		gt.Value(t, roles[0].Name).Equal("Chief Product Officer")
		gt.Value(t, roles[0].Temperature).Equal(0.4)
		gt.Value(t, roles[0].Goal != "").Equal(true)
		gt.Value(t, roles[0].Backstory != "").Equal(true)
	})

	t.Run("missing team fixture aborts the load", func(t *testing.T) {
		repo := memory.New()
		_, err := loader.New(repo, t.TempDir()).Load(ctx)
		gt.Value(t, errors.Is(err, loader.ErrFixtureMissing)).Equal(true)
	})

	t.Run("empty team fixture aborts the load", func(t *testing.T) {
		dir := t.TempDir()
		gt.NoError(t, os.WriteFile(filepath.Join(dir, "team.toml"), []byte("employees = []\n"), 0600))

		repo := memory.New()
		_, err := loader.New(repo, dir).Load(ctx)
		gt.Value(t, errors.Is(err, loader.ErrFixtureMissing)).Equal(true)
	})

	t.Run("production history rows keep premium and policies", func(t *testing.T) {
		repo := memory.New()
		gt.R1(loader.New(repo, filepath.Join("testdata", "kb")).Load(ctx)).NoError(t)

		docs := gt.R1(repo.Document().ListByType(ctx, types.DocTypeProductionHistory)).NoError(t)
		gt.Array(t, docs).Length(1)

		carrierA := docs[0].Production.Carriers[0]
		gt.Value(t, carrierA.Carrier).Equal("Carrier A")
		gt.Value(t, carrierA.Product).Equal(types.ProductAnnuity)
		gt.Array(t, carrierA.Records).Length(2)
		gt.Value(t, carrierA.Records[1].Premium).Equal(1450000.0)
		gt.Value(t, carrierA.Records[1].Policies).Equal(365)
	})
}
