package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/repolens/repolens/internal/repo"
)

type stubLister struct {
	mu         sync.Mutex
	inFlight   int
	maxSeen    int
	byID       map[string][]string
	failingIDs map[string]error
}

func (s *stubLister) AllFiles(ctx context.Context, repoID string) ([]string, error) {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > s.maxSeen {
		s.maxSeen = s.inFlight
	}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if err, ok := s.failingIDs[repoID]; ok {
		return nil, err
	}
	return s.byID[repoID], nil
}

func TestCollectKeepsOrderAndErrors(t *testing.T) {
	lister := &stubLister{
		byID: map[string][]string{
			"1": {"a.go"},
			"3": {"b.ts", "c.ts"},
		},
		failingIDs: map[string]error{"2": errors.New("server returned 500 Internal Server Error")},
	}
	repos := []repo.Repo{
		{ID: "1", FullName: "org/one"},
		{ID: "2", FullName: "org/two"},
		{ID: "3", FullName: "org/three"},
	}

	results := Collect(context.Background(), lister, repos)
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Doc == nil || results[0].Doc.TotalFiles != 1 {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].Err == nil || results[1].Doc != nil {
		t.Errorf("results[1] should carry the fetch error: %+v", results[1])
	}
	if results[2].Doc == nil || results[2].Doc.TotalFiles != 2 {
		t.Errorf("results[2] = %+v", results[2])
	}
	if lister.maxSeen > maxConcurrentFetches {
		t.Errorf("observed %d concurrent fetches, limit is %d", lister.maxSeen, maxConcurrentFetches)
	}
}

func TestBuildDocument(t *testing.T) {
	doc := BuildDocument(repo.Repo{ID: "42", FullName: "acme/widget"},
		[]string{"src/a.ts", "src/b.ts", "docs/readme.md"})
	if doc.Repository != "acme/widget" {
		t.Errorf("Repository = %q", doc.Repository)
	}
	if doc.TotalFiles != 3 {
		t.Errorf("TotalFiles = %d", doc.TotalFiles)
	}
	if len(doc.Extensions) != 2 || doc.Extensions[0].Extension != "ts" || doc.Extensions[0].Count != 2 {
		t.Errorf("Extensions = %+v", doc.Extensions)
	}
	if len(doc.Fingerprint) != 16 {
		t.Errorf("Fingerprint = %q, want 16 hex digits", doc.Fingerprint)
	}
	if len(doc.Tree) != 2 || doc.Tree[0].Name != "docs" || doc.Tree[1].Name != "src" {
		t.Errorf("Tree top level = %+v", doc.Tree)
	}
}

func TestRenderRaw(t *testing.T) {
	doc := BuildDocument(repo.Repo{FullName: "acme/widget"},
		[]string{"src/a.ts", "src/b.ts", "docs/readme.md"})
	out := RenderRaw(doc)
	for _, want := range []string{
		"/acme/widget",
		"├── docs/",
		"└── src/",
		"3 files",
		"ts",
		"66.7%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("raw output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	results := []Result{
		{Repo: repo.Repo{FullName: "org/ok"}, Doc: BuildDocument(repo.Repo{FullName: "org/ok"}, []string{"a.go"})},
		{Repo: repo.Repo{FullName: "org/bad"}, Err: errors.New("boom")},
	}
	var buf bytes.Buffer
	if err := Write(&buf, results, FormatJSON, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var decoded []Document
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 1 || decoded[0].Repository != "org/ok" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteAllFailed(t *testing.T) {
	results := []Result{{Repo: repo.Repo{FullName: "org/bad"}, Err: errors.New("boom")}}
	if err := Write(&bytes.Buffer{}, results, FormatRaw, nil); err == nil {
		t.Fatal("expected error when every repository failed")
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	results := []Result{{Doc: BuildDocument(repo.Repo{}, nil)}}
	if err := Write(&bytes.Buffer{}, results, "yaml", nil); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
