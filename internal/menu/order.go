package menu

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"menuboard/internal"
)

// Orderer sorts grouped items into the final category sequence. Listed
// categories come first in list order; the rest follow alphabetically under
// the configured locale.
type Orderer struct {
	priority map[string]int
	tag      language.Tag
}

func NewOrderer(priority []string, locale string) *Orderer {
	ranks := make(map[string]int, len(priority))
	for i, name := range priority {
		if _, ok := ranks[name]; !ok {
			ranks[name] = i
		}
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &Orderer{priority: ranks, tag: tag}
}

func (o *Orderer) Order(groups *Groups) []internal.MenuCategory {
	// collate.Collator is not safe for concurrent use.
	col := collate.New(o.tag)

	out := make([]internal.MenuCategory, 0, groups.Len())
	for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
		items := slices.Clone(pair.Value)
		slices.SortStableFunc(items, func(a, b internal.DisplayMenuItem) int {
			return col.CompareString(a.Name, b.Name)
		})
		out = append(out, internal.MenuCategory{Name: pair.Key, Items: items})
	}

	slices.SortStableFunc(out, func(a, b internal.MenuCategory) int {
		return o.compareCategories(col, a.Name, b.Name)
	})
	return out
}

func (o *Orderer) compareCategories(col *collate.Collator, a, b string) int {
	ra, aListed := o.priority[a]
	rb, bListed := o.priority[b]
	switch {
	case aListed && bListed:
		return ra - rb
	case aListed:
		return -1
	case bListed:
		return 1
	}
	if c := col.CompareString(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
