package experience

import (
	"time"

	"github.com/google/uuid"
)

// Filter narrows a scan of active experiences. Zero values are unbounded.
// CreatedFrom is inclusive and CreatedTo exclusive.
type Filter struct {
	PeptideIDs  []uuid.UUID
	CreatedFrom time.Time
	CreatedTo   time.Time
}

const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortHelpful = "helpful"
)

func IsValidSort(v string) bool {
	switch v {
	case SortNewest, SortOldest, SortHelpful:
		return true
	}
	return false
}

// ListQuery pages through active experiences.
type ListQuery struct {
	PeptideID *uuid.UUID
	Sort      string
	Offset    int
	Limit     int
}
