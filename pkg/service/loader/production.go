package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
)

type productionHistoryFile struct {
	Metadata struct {
		Year int `json:"year"`
	} `json:"metadata"`
	Carriers []struct {
		CarrierDisplay string `json:"carrier_display"`
		Product        string `json:"product"`
		Records        []struct {
			Year     int     `json:"year"`
			Premium  float64 `json:"premium"`
			Policies int     `json:"policies"`
		} `json:"records"`
	} `json:"carriers"`
}

// loadProductionHistory stores the whole book as one document linked to
// every carrier it mentions. A missing file is a warning, not an error.
func (l *Loader) loadProductionHistory(ctx context.Context, summary *Summary) error {
	path := filepath.Join(l.dataDir, "production_history.json")

	raw, err := os.ReadFile(path)
	if err != nil {
		l.skip(ctx, summary, path, "production history not readable", err)
		return nil
	}

	var file productionHistoryFile
	if err := json.Unmarshal(raw, &file); err != nil {
		l.skip(ctx, summary, path, "invalid JSON", err)
		return nil
	}

	carriers := make([]model.CarrierProduction, 0, len(file.Carriers))
	for _, entry := range file.Carriers {
		records := make([]model.ProductionRecord, 0, len(entry.Records))
		for _, record := range entry.Records {
			records = append(records, model.ProductionRecord{
				Year:     record.Year,
				Premium:  record.Premium,
				Policies: record.Policies,
			})
		}
		carriers = append(carriers, model.CarrierProduction{
			Carrier: entry.CarrierDisplay,
			Product: types.ProductType(entry.Product),
			Records: records,
		})
	}

	title := fmt.Sprintf("Production History %d", file.Metadata.Year)
	doc := model.NewDocument(title, types.DocTypeProductionHistory)
	doc.FilePath = path
	doc.Year = file.Metadata.Year
	doc.Production = &model.ProductionContent{Carriers: carriers}

	stored, err := l.repo.Document().Upsert(ctx, doc)
	if err != nil {
		return goerr.Wrap(err, "failed to upsert production history", goerr.V("title", title))
	}
	summary.Documents++

	for _, entry := range file.Carriers {
		if entry.CarrierDisplay == "" {
			continue
		}
		org, err := l.upsertOrganization(ctx, summary, entry.CarrierDisplay)
		if err != nil {
			return err
		}
		if err := l.repo.Document().LinkOrganization(ctx, stored.ID, org.ID, types.RelationProductionHistory); err != nil {
			return err
		}
	}
	return nil
}
