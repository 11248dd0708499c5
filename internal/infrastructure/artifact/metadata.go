package artifact

import (
	"encoding/json"
	"fmt"

	"github.com/bibbank/fraud-detection/internal/domain/model"
)

// DecodeMetadata decodes the training metadata sidecar.
func DecodeMetadata(data []byte) (*model.Metadata, error) {
	var m model.Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("artifact: decode metadata: %w", err)
	}
	return &m, nil
}
