package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
)

// Research files are named {carrier}_DR{n}_{topic}.md, with underscores
// standing in for spaces in carrier and topic.
var researchFilePattern = regexp.MustCompile(`^(.+)_DR(\d+)_(.+)$`)

func (l *Loader) loadResearch(ctx context.Context, summary *Summary) error {
	dir := filepath.Join(l.dataDir, "research")
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return goerr.Wrap(err, "failed to scan research directory", goerr.V("dir", dir))
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := l.loadResearchFile(ctx, summary, path); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadResearchFile(ctx context.Context, summary *Summary, path string) error {
	stem := strings.TrimSuffix(filepath.Base(path), ".md")
	groups := researchFilePattern.FindStringSubmatch(stem)
	if groups == nil {
		l.skip(ctx, summary, path, "filename does not match {carrier}_DR{n}_{topic}.md", nil)
		return nil
	}

	carrier := titleCase(strings.ReplaceAll(groups[1], "_", " "))
	sequence, err := strconv.Atoi(groups[2])
	if err != nil {
		l.skip(ctx, summary, path, "invalid DR number", err)
		return nil
	}
	topic := strings.ReplaceAll(groups[3], "_", " ")

	body, err := os.ReadFile(path)
	if err != nil {
		l.skip(ctx, summary, path, "unreadable", err)
		return nil
	}

	org, err := l.upsertOrganization(ctx, summary, carrier)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s - DR%d: %s", carrier, sequence, titleCase(topic))
	doc := model.NewDocument(title, types.DocTypeResearch)
	doc.FilePath = path
	doc.Research = &model.ResearchContent{
		Carrier:  carrier,
		Topic:    topic,
		Sequence: sequence,
		Body:     string(body),
	}

	stored, err := l.repo.Document().Upsert(ctx, doc)
	if err != nil {
		return goerr.Wrap(err, "failed to upsert research document", goerr.V("title", title))
	}
	summary.Documents++

	if err := l.repo.Document().LinkOrganization(ctx, stored.ID, org.ID, types.RelationResearch); err != nil {
		return err
	}
	return nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
