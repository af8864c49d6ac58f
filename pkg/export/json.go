package export

import (
	"encoding/json"
	"fmt"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
)

// encodeJSON dumps the full result structure: rows, summary, computed
// chart series, insights, recommendations and warnings.
func encodeJSON(result *domain.ReportResult) ([]byte, error) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report result: %w", err)
	}
	return out, nil
}
