package community

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/soundprediction/graphrag/pkg/types"
)

const summaryFilePrefix = "community_"

// SummaryStore persists community summaries.
type SummaryStore interface {
	// ReplaceAll drops every stored summary and stores summaries instead.
	ReplaceAll(ctx context.Context, summaries []types.CommunitySummary) error

	// LoadAll returns every stored summary in ascending community id order.
	LoadAll(ctx context.Context) ([]types.CommunitySummary, error)
}

// FileSummaryStore keeps one JSON file per community in a directory.
type FileSummaryStore struct {
	dir string
}

// NewFileSummaryStore creates a store rooted at dir. The directory is
// created on first write.
func NewFileSummaryStore(dir string) *FileSummaryStore {
	return &FileSummaryStore{dir: dir}
}

// Dir returns the storage directory.
func (s *FileSummaryStore) Dir() string {
	return s.dir
}

// ReplaceAll removes stale community files and writes the new set.
func (s *FileSummaryStore) ReplaceAll(ctx context.Context, summaries []types.CommunitySummary) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create summary directory: %w", err)
	}

	stale, err := s.files()
	if err != nil {
		return err
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove stale summary %s: %w", path, err)
		}
	}

	for _, summary := range summaries {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode summary %d: %w", summary.CommunityID, err)
		}
		path := filepath.Join(s.dir, fmt.Sprintf("%s%d.json", summaryFilePrefix, summary.CommunityID))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write summary %d: %w", summary.CommunityID, err)
		}
	}
	return nil
}

// LoadAll reads every community file. A missing directory yields no summaries.
func (s *FileSummaryStore) LoadAll(ctx context.Context) ([]types.CommunitySummary, error) {
	paths, err := s.files()
	if err != nil {
		return nil, err
	}

	summaries := make([]types.CommunitySummary, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read summary %s: %w", path, err)
		}
		var summary types.CommunitySummary
		if err := json.Unmarshal(data, &summary); err != nil {
			return nil, types.NewMalformedDataError("summary store", filepath.Base(path), err.Error())
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CommunityID < summaries[j].CommunityID
	})
	return summaries, nil
}

func (s *FileSummaryStore) files() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read summary directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, summaryFilePrefix) || filepath.Ext(name) != ".json" {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, name))
	}
	return paths, nil
}

var _ SummaryStore = (*FileSummaryStore)(nil)
