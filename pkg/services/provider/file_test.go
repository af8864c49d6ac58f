package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource_ReadsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.json")
	snapshot := `[
		{"action": "login", "severity": "LOW", "outcome": "SUCCESS"},
		{"action": "role_change", "severity": "HIGH", "outcome": "SUCCESS"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(snapshot), 0o600))

	src := &FileSource{SourceKind: KindAudit, Path: path}
	assert.Equal(t, KindAudit, src.Kind())

	records, err := src.GetRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "role_change", records[1]["action"])
}

func TestFileSource_MissingFile(t *testing.T) {
	src := &FileSource{SourceKind: KindAudit, Path: filepath.Join(t.TempDir(), "absent.json")}

	_, err := src.GetRecords(context.Background())
	assert.Error(t, err)
}
