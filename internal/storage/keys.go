package storage

import (
	"fmt"

	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/model"
)

// ObjectKey locates a raw object in the bucket. The layout matches what the
// ingestion side writes, so the same fields resolve to the same object.
type ObjectKey struct {
	Source    string
	Dataset   model.Dataset
	Date      string // in YYYY-MM-DD format
	RunID     model.RunID
	Extension string
}

func (k ObjectKey) Key() string {
	return fmt.Sprintf("%s/%s/%s/%s.%s", k.Source, k.Dataset, k.Date, k.RunID, k.Extension)
}
