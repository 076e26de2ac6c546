package filter

import "github.com/kailas-cloud/athletedex/internal/domain/athlete/criteria"

// Sort is a single-field ordering.
type Sort struct {
	Field      Field
	Descending bool
}

var sortable = map[string]Field{
	"name":           FieldName,
	"score":          FieldScore,
	"totalFollowers": FieldTotalFollowers,
	"engagementRate": FieldEngagementRate,
	"age":            FieldAge,
}

// DefaultSort is used for any sortBy outside the whitelist, regardless of sortOrder.
var DefaultSort = Sort{Field: FieldScore, Descending: true}

// SortFor resolves the requested sort against the whitelist.
func SortFor(p criteria.Page) Sort {
	f, ok := sortable[p.SortBy]
	if !ok {
		return DefaultSort
	}
	return Sort{Field: f, Descending: p.SortOrder != criteria.SortAsc}
}
