package menu

import (
	"slices"
	"strings"

	"menuboard/internal"
	"menuboard/internal/util"
)

// Menu is an assembled, immutable menu snapshot. Accessors return copies.
type Menu struct {
	items      []internal.DisplayMenuItem
	categories []internal.MenuCategory
	index      *Index
}

func newMenu(items []internal.DisplayMenuItem, categories []internal.MenuCategory) *Menu {
	return &Menu{
		items:      items,
		categories: categories,
		index:      BuildIndex(items, categories),
	}
}

// Empty returns a menu with no categories.
func Empty() *Menu {
	return newMenu(nil, nil)
}

// FromCategories assembles a menu from an already ordered category list, for
// example one restored from storage.
func FromCategories(categories []internal.MenuCategory) *Menu {
	cats := cloneCategories(categories)
	items := make([]internal.DisplayMenuItem, 0)
	for _, c := range cats {
		items = append(items, c.Items...)
	}
	return newMenu(items, cats)
}

func (m *Menu) Categories() []internal.MenuCategory {
	return cloneCategories(m.categories)
}

// ItemsByCategory returns the items of the category with exactly this name,
// or an empty slice.
func (m *Menu) ItemsByCategory(name string) []internal.DisplayMenuItem {
	pos, ok := m.index.ByCategory[name]
	if !ok {
		return []internal.DisplayMenuItem{}
	}
	return slices.Clone(m.categories[pos].Items)
}

func (m *Menu) ItemByID(id string) (internal.DisplayMenuItem, bool) {
	item, ok := m.index.ByID[id]
	return item, ok
}

// Items returns every normalized item in fetch order.
func (m *Menu) Items() []internal.DisplayMenuItem {
	return slices.Clone(m.items)
}

func (m *Menu) ItemCount() int {
	n := 0
	for _, c := range m.categories {
		n += len(c.Items)
	}
	return n
}

func (m *Menu) CategoryNames() []string {
	out := make([]string, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c.Name)
	}
	return out
}

// InStock drops items without stock and any category left empty.
func (m *Menu) InStock() *Menu {
	return m.Filter(Filter{InStockOnly: true})
}

type Filter struct {
	Category    string
	SearchTerm  string
	MinPrice    *float64
	MaxPrice    *float64
	InStockOnly bool
}

// Filter returns a new menu keeping category and item order. SearchTerm is
// matched case- and accent-insensitively: every word of two or more letters
// must appear in the name or the description. A term with no such word is
// matched as a whole.
func (m *Menu) Filter(f Filter) *Menu {
	match := searchMatcher(f.SearchTerm)
	keep := func(item internal.DisplayMenuItem) bool {
		if f.InStockOnly && item.Stock <= 0 {
			return false
		}
		if f.MinPrice != nil && item.Price < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && item.Price > *f.MaxPrice {
			return false
		}
		if match != nil && !match(item) {
			return false
		}
		return true
	}

	items := make([]internal.DisplayMenuItem, 0, len(m.items))
	for _, item := range m.items {
		if f.Category != "" && item.Category != f.Category {
			continue
		}
		if keep(item) {
			items = append(items, item)
		}
	}

	categories := make([]internal.MenuCategory, 0, len(m.categories))
	for _, c := range m.categories {
		if f.Category != "" && c.Name != f.Category {
			continue
		}
		kept := make([]internal.DisplayMenuItem, 0, len(c.Items))
		for _, item := range c.Items {
			if keep(item) {
				kept = append(kept, item)
			}
		}
		if len(kept) > 0 {
			categories = append(categories, internal.MenuCategory{Name: c.Name, Items: kept})
		}
	}

	return newMenu(items, categories)
}

func searchMatcher(term string) func(internal.DisplayMenuItem) bool {
	folded := util.FoldSearch(term)
	if folded == "" {
		return nil
	}
	tokens := util.Tokenize(folded)
	if len(tokens) == 0 {
		tokens = []string{folded}
	}
	return func(item internal.DisplayMenuItem) bool {
		name := util.FoldSearch(item.Name)
		desc := util.FoldSearch(item.Description)
		for _, tok := range tokens {
			if !strings.Contains(name, tok) && !strings.Contains(desc, tok) {
				return false
			}
		}
		return true
	}
}

func cloneCategories(in []internal.MenuCategory) []internal.MenuCategory {
	out := make([]internal.MenuCategory, 0, len(in))
	for _, c := range in {
		out = append(out, internal.MenuCategory{Name: c.Name, Items: slices.Clone(c.Items)})
	}
	return out
}
