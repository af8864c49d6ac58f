package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
)

// FileSource serves records from a JSON snapshot on disk, re-read on
// every fetch so a refreshed export is picked up without a restart.
// The file holds a single JSON array of records.
type FileSource struct {
	SourceKind Kind
	Path       string
}

func (s *FileSource) Kind() Kind { return s.SourceKind }

func (s *FileSource) GetRecords(_ context.Context) ([]domain.Record, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", s.Path, err)
	}

	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", s.Path, err)
	}
	return records, nil
}
