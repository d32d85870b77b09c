// Package report produces the tree and extension breakdown for one or more
// repositories without the interactive view.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/repolens/repolens/internal/analysis"
	"github.com/repolens/repolens/internal/repo"
	"github.com/repolens/repolens/internal/tree"
)

// Output formats.
const (
	FormatRaw  = "raw"
	FormatJSON = "json"
)

const maxConcurrentFetches = 3

// Lister fetches the complete file listing for a repository.
type Lister interface {
	AllFiles(ctx context.Context, repoID string) ([]string, error)
}

// Document is one repository's report.
type Document struct {
	Repository  string                    `json:"repository"`
	TotalFiles  int                       `json:"totalFiles"`
	Extensions  []analysis.ExtensionCount `json:"extensions"`
	Fingerprint string                    `json:"fingerprint"`
	Tree        []*tree.Node              `json:"tree"`
}

// Result pairs a requested repository with its document or fetch error.
type Result struct {
	Repo repo.Repo
	Doc  *Document
	Err  error
}

// Collect fetches every repository's listing, at most maxConcurrentFetches
// in flight, and returns results in request order.
func Collect(ctx context.Context, lister Lister, repos []repo.Repo) []Result {
	results := make([]Result, len(repos))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentFetches)
	for i, target := range repos {
		i, target := i, target
		group.Go(func() error {
			files, err := lister.AllFiles(groupCtx, target.ID)
			if err != nil {
				results[i] = Result{Repo: target, Err: err}
				return nil
			}
			results[i] = Result{Repo: target, Doc: BuildDocument(target, files)}
			return nil
		})
	}
	_ = group.Wait()
	return results
}

// BuildDocument assembles the report for one fetched listing.
func BuildDocument(target repo.Repo, files []string) *Document {
	summary := analysis.Summarize(target.Label(), files)
	root := tree.Build(files)
	return &Document{
		Repository:  summary.RepoLabel,
		TotalFiles:  summary.TotalFiles,
		Extensions:  summary.Counts(),
		Fingerprint: fmt.Sprintf("%016x", summary.Fingerprint),
		Tree:        root.Children,
	}
}

// RenderRaw renders one document as an ASCII tree followed by the breakdown.
func RenderRaw(doc *Document) string {
	var builder strings.Builder
	builder.WriteString(tree.Sprint(doc.Repository, doc.Tree))
	builder.WriteString("\n")
	fmt.Fprintf(&builder, "%d files  digest %s\n", doc.TotalFiles, doc.Fingerprint)
	for _, entry := range doc.Extensions {
		percent := 0.0
		if doc.TotalFiles > 0 {
			percent = float64(entry.Count) / float64(doc.TotalFiles) * 100
		}
		fmt.Fprintf(&builder, "%-10s %4d  %5.1f%%\n", entry.Extension, entry.Count, percent)
	}
	return builder.String()
}

// Write emits the successful documents in the requested format. Repositories
// that failed are logged and skipped; Write errors only when nothing
// succeeded or the format is unknown.
func Write(writer io.Writer, results []Result, format string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	documents := make([]*Document, 0, len(results))
	for _, result := range results {
		if result.Err != nil {
			logger.Warn("skipping repository",
				zap.String("repository", result.Repo.Label()),
				zap.Error(result.Err))
			continue
		}
		documents = append(documents, result.Doc)
	}
	if len(documents) == 0 {
		return errors.New("no repositories could be analyzed")
	}

	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(documents)
	case FormatRaw:
		for i, doc := range documents {
			if i > 0 {
				fmt.Fprintln(writer)
			}
			fmt.Fprint(writer, RenderRaw(doc))
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
