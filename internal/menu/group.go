package menu

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"menuboard/internal"
)

// Groups maps category name to its items in first-seen order.
type Groups = orderedmap.OrderedMap[string, []internal.DisplayMenuItem]

// GroupByCategory partitions items by exact category name. Groups appear in
// the order their first item was seen and items keep their input order.
func GroupByCategory(items []internal.DisplayMenuItem) *Groups {
	groups := orderedmap.New[string, []internal.DisplayMenuItem]()
	for _, item := range items {
		existing, _ := groups.Get(item.Category)
		groups.Set(item.Category, append(existing, item))
	}
	return groups
}
