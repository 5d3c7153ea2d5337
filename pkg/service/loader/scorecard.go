package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/m-mizutani/goerr/v2"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
)

// Score fields keep the source file's naming: n_score / rank_current are
// the current period, py_* the prior period.
type scoreEntry struct {
	Question   string  `json:"question"`
	NScore     float64 `json:"n_score"`
	RankCurr   int     `json:"rank_current"`
	ScoreDelta float64 `json:"score_delta"`
	RankDelta  int     `json:"rank_delta"`
	PYNScore   float64 `json:"py_n_score"`
	PYRank     int     `json:"py_rank"`
}

type carrierScorecardFile struct {
	Metadata struct {
		CarrierDisplay string `json:"carrier_display"`
		Product        string `json:"product"`
		Year           int    `json:"year"`
	} `json:"metadata"`
	Questions []scoreEntry `json:"questions"`
	Aggregate scoreEntry   `json:"aggregate"`
}

func (l *Loader) loadCarrierScorecards(ctx context.Context, summary *Summary) error {
	dir := filepath.Join(l.dataDir, "carrier_scorecards")
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return goerr.Wrap(err, "failed to scan scorecard directory", goerr.V("dir", dir))
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := l.loadCarrierScorecard(ctx, summary, path); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadCarrierScorecard(ctx context.Context, summary *Summary, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		l.skip(ctx, summary, path, "unreadable", err)
		return nil
	}

	var file carrierScorecardFile
	if err := json.Unmarshal(raw, &file); err != nil {
		l.skip(ctx, summary, path, "invalid JSON", err)
		return nil
	}

	productType := types.ProductType(file.Metadata.Product)
	if file.Metadata.CarrierDisplay == "" || !productType.IsValid() {
		l.skip(ctx, summary, path, "missing carrier or unknown product", nil)
		return nil
	}

	org, err := l.upsertOrganization(ctx, summary, file.Metadata.CarrierDisplay)
	if err != nil {
		return err
	}
	product, err := l.findProduct(ctx, productType)
	if err != nil {
		return err
	}

	questions := make([]model.QuestionScore, 0, len(file.Questions))
	for _, entry := range file.Questions {
		questions = append(questions, model.QuestionScore{
			Question:   entry.Question,
			Score:      entry.NScore,
			Rank:       entry.RankCurr,
			ScoreDelta: entry.ScoreDelta,
			RankDelta:  entry.RankDelta,
			PriorScore: entry.PYNScore,
			PriorRank:  entry.PYRank,
		})
	}

	title := fmt.Sprintf("%s %s Scorecard %d", file.Metadata.CarrierDisplay, productType, file.Metadata.Year)
	doc := model.NewDocument(title, types.DocTypeCarrierScorecard)
	doc.FilePath = path
	doc.Year = file.Metadata.Year
	doc.Scorecard = &model.ScorecardContent{
		Carrier:        file.Metadata.CarrierDisplay,
		Product:        productType,
		Year:           file.Metadata.Year,
		Questions:      questions,
		AggregateScore: file.Aggregate.NScore,
		AggregateRank:  file.Aggregate.RankCurr,
	}

	stored, err := l.repo.Document().Upsert(ctx, doc)
	if err != nil {
		return goerr.Wrap(err, "failed to upsert scorecard document", goerr.V("title", title))
	}
	summary.Documents++

	if err := l.repo.Document().LinkOrganization(ctx, stored.ID, org.ID, types.RelationScorecard); err != nil {
		return err
	}
	if err := l.repo.Document().LinkProduct(ctx, stored.ID, product.ID); err != nil {
		return err
	}

	// Aggregate rows become offers so metric queries skip document parsing.
	for _, offer := range []*model.Offer{
		{
			OrganizationID: org.ID,
			ProductID:      product.ID,
			Type:           model.OfferAggregateScore,
			Value:          file.Aggregate.NScore,
			Year:           file.Metadata.Year,
		},
		{
			OrganizationID: org.ID,
			ProductID:      product.ID,
			Type:           model.OfferAggregateRank,
			Value:          float64(file.Aggregate.RankCurr),
			Year:           file.Metadata.Year,
		},
	} {
		if _, err := l.repo.Offer().Upsert(ctx, offer); err != nil {
			return goerr.Wrap(err, "failed to upsert offer", goerr.V("title", title))
		}
		summary.Offers++
	}

	return nil
}

type questionScorecardFile struct {
	Metadata struct {
		Question string `json:"question"`
		Product  string `json:"product"`
		Year     int    `json:"year"`
	} `json:"metadata"`
	Carriers []struct {
		CarrierDisplay string `json:"carrier_display"`
		scoreEntry
	} `json:"carriers"`
}

func (l *Loader) loadQuestionScorecards(ctx context.Context, summary *Summary) error {
	dir := filepath.Join(l.dataDir, "question_scorecards")
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return goerr.Wrap(err, "failed to scan question scorecard directory", goerr.V("dir", dir))
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := l.loadQuestionScorecard(ctx, summary, path); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadQuestionScorecard(ctx context.Context, summary *Summary, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		l.skip(ctx, summary, path, "unreadable", err)
		return nil
	}

	var file questionScorecardFile
	if err := json.Unmarshal(raw, &file); err != nil {
		l.skip(ctx, summary, path, "invalid JSON", err)
		return nil
	}

	productType := types.ProductType(file.Metadata.Product)
	if file.Metadata.Question == "" || !productType.IsValid() {
		l.skip(ctx, summary, path, "missing question or unknown product", nil)
		return nil
	}

	product, err := l.findProduct(ctx, productType)
	if err != nil {
		return err
	}

	results := make([]model.CarrierResult, 0, len(file.Carriers))
	for _, entry := range file.Carriers {
		results = append(results, model.CarrierResult{
			Carrier:    entry.CarrierDisplay,
			Score:      entry.NScore,
			Rank:       entry.RankCurr,
			ScoreDelta: entry.ScoreDelta,
			RankDelta:  entry.RankDelta,
			PriorScore: entry.PYNScore,
			PriorRank:  entry.PYRank,
		})
	}

	title := fmt.Sprintf("%s - %s (%d)", file.Metadata.Question, productType, file.Metadata.Year)
	doc := model.NewDocument(title, types.DocTypeQuestionScorecard)
	doc.FilePath = path
	doc.Year = file.Metadata.Year
	doc.QuestionScorecard = &model.QuestionScorecardContent{
		Question: file.Metadata.Question,
		Product:  productType,
		Year:     file.Metadata.Year,
		Results:  results,
	}

	stored, err := l.repo.Document().Upsert(ctx, doc)
	if err != nil {
		return goerr.Wrap(err, "failed to upsert question scorecard", goerr.V("title", title))
	}
	summary.Documents++

	if err := l.repo.Document().LinkProduct(ctx, stored.ID, product.ID); err != nil {
		return err
	}
	return nil
}

func (l *Loader) findProduct(ctx context.Context, productType types.ProductType) (*model.Product, error) {
	products, err := l.repo.Product().FindByName(ctx, productType.String())
	if err != nil {
		return nil, err
	}
	for _, product := range products {
		if product.Type == productType {
			return product, nil
		}
	}
	return nil, goerr.New("product not loaded", goerr.V("type", productType))
}
