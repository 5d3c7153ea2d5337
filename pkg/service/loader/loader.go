// Package loader runs the ETL pass: fixtures and document files go in,
// graph entities and links come out. Loads are idempotent; rerunning
// against the same directory updates in place and never duplicates.
package loader

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/jari1882/simkb/pkg/domain/interfaces"
	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
	"github.com/jari1882/simkb/pkg/utils/logging"
)

// ErrFixtureMissing aborts a load when a required fixture (the team
// file) is absent. Individual document files are skipped with a warning
// instead.
var ErrFixtureMissing = goerr.New("required fixture missing")

type Loader struct {
	repo    interfaces.Repository
	dataDir string
}

func New(repo interfaces.Repository, dataDir string) *Loader {
	return &Loader{repo: repo, dataDir: dataDir}
}

// Summary reports what a load pass touched.
type Summary struct {
	Organizations int
	Products      int
	Roles         int
	Documents     int
	Offers        int
	SkippedFiles  []string
}

// Load runs every step in dependency order: products, roles, carrier
// scorecards (which create organizations), research, question
// scorecards, production history.
func (l *Loader) Load(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	if err := l.loadProducts(ctx, summary); err != nil {
		return nil, err
	}
	if err := l.loadRoles(ctx, summary); err != nil {
		return nil, err
	}
	if err := l.loadCarrierScorecards(ctx, summary); err != nil {
		return nil, err
	}
	if err := l.loadResearch(ctx, summary); err != nil {
		return nil, err
	}
	if err := l.loadQuestionScorecards(ctx, summary); err != nil {
		return nil, err
	}
	if err := l.loadProductionHistory(ctx, summary); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("knowledge base loaded",
		"organizations", summary.Organizations,
		"products", summary.Products,
		"roles", summary.Roles,
		"documents", summary.Documents,
		"offers", summary.Offers,
		"skipped_files", len(summary.SkippedFiles),
	)
	return summary, nil
}

// The product lineup is fixed; it ships with the loader rather than a
// data file so a load can never miss it.
var productLineup = []struct {
	Type        types.ProductType
	Description string
}{
	{types.ProductLife, "Life Insurance"},
	{types.ProductAnnuity, "Annuity Products"},
	{types.ProductABLTC, "Asset-Based Long-Term Care"},
	{types.ProductDisability, "Disability Insurance"},
}

func (l *Loader) loadProducts(ctx context.Context, summary *Summary) error {
	for _, p := range productLineup {
		if _, err := l.repo.Product().Upsert(ctx, model.NewProduct(p.Type, p.Description)); err != nil {
			return goerr.Wrap(err, "failed to upsert product", goerr.V("type", p.Type))
		}
		summary.Products++
	}
	return nil
}

func (l *Loader) skip(ctx context.Context, summary *Summary, path string, reason string, err error) {
	logger := logging.From(ctx)
	if err != nil {
		logger.Warn("skipping file", "path", path, "reason", reason, "error", err.Error())
	} else {
		logger.Warn("skipping file", "path", path, "reason", reason)
	}
	summary.SkippedFiles = append(summary.SkippedFiles, path)
}

func (l *Loader) upsertOrganization(ctx context.Context, summary *Summary, displayName string) (*model.Organization, error) {
	org, err := l.repo.Organization().Upsert(ctx, model.NewOrganization(displayName))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upsert organization", goerr.V("name", displayName))
	}
	summary.Organizations++
	return org, nil
}
