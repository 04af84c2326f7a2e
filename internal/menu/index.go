package menu

import (
	"menuboard/internal"
)

// Index holds lookup tables over an assembled menu. ByID keeps the first
// item seen in fetch order for each identifier; ByCategory maps a category
// name to its position in the ordered category list.
type Index struct {
	ByID       map[string]internal.DisplayMenuItem
	ByCategory map[string]int
}

func BuildIndex(items []internal.DisplayMenuItem, categories []internal.MenuCategory) *Index {
	idx := &Index{
		ByID:       make(map[string]internal.DisplayMenuItem, len(items)),
		ByCategory: make(map[string]int, len(categories)),
	}

	for _, item := range items {
		if _, seen := idx.ByID[item.ID]; !seen {
			idx.ByID[item.ID] = item
		}
	}
	for i, category := range categories {
		idx.ByCategory[category.Name] = i
	}

	return idx
}
