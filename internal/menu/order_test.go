package menu

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menuboard/internal"
)

func item(id, category, name string) internal.DisplayMenuItem {
	return internal.DisplayMenuItem{ID: id, Category: category, Name: name}
}

func categoryNames(categories []internal.MenuCategory) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.Name)
	}
	return out
}

func itemIDs(items []internal.DisplayMenuItem) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.ID)
	}
	return out
}

func TestGroupByCategoryIsStablePartition(t *testing.T) {
	items := []internal.DisplayMenuItem{
		item("1", "Tacos", "Pastor"),
		item("2", "Waters", "Agua"),
		item("3", "Tacos", "Asada"),
		item("4", "tacos", "Suadero"),
		item("5", "Waters", "Agua mineral"),
	}

	groups := GroupByCategory(items)
	require.Equal(t, 3, groups.Len())

	var keys []string
	total := 0
	for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
		total += len(pair.Value)
	}
	assert.Equal(t, []string{"Tacos", "Waters", "tacos"}, keys)
	assert.Equal(t, len(items), total)

	tacos, _ := groups.Get("Tacos")
	assert.Equal(t, []string{"1", "3"}, itemIDs(tacos))
}

func TestOrderPriorityBeforeAlphabetical(t *testing.T) {
	groups := GroupByCategory([]internal.DisplayMenuItem{
		item("1", "Zeta", "z"),
		item("2", "Waters", "w"),
		item("3", "Alpha", "a"),
	})

	got := NewOrderer([]string{"Waters"}, "es").Order(groups)
	if diff := cmp.Diff([]string{"Waters", "Alpha", "Zeta"}, categoryNames(got)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderPriorityListPosition(t *testing.T) {
	groups := GroupByCategory([]internal.DisplayMenuItem{
		item("1", "Bebidas", "b"),
		item("2", "Waters", "w"),
		item("3", "aguas", "a"),
		item("4", "Flavored Water", "f"),
	})

	got := NewOrderer([]string{"Flavored Water", "Waters", "Flavored Water", "Missing"}, "es").Order(groups)
	assert.Equal(t, []string{"Flavored Water", "Waters", "aguas", "Bebidas"}, categoryNames(got))
}

func TestOrderItemsByLocaleCollation(t *testing.T) {
	groups := GroupByCategory([]internal.DisplayMenuItem{
		item("1", "Frutas", "Zumo"),
		item("2", "Frutas", "banana"),
		item("3", "Frutas", "éclair"),
		item("4", "Frutas", "Durazno"),
		item("5", "Frutas", "Agua"),
	})

	got := NewOrderer(nil, "es").Order(groups)
	require.Len(t, got, 1)
	// Byte order would put "Zumo" before "banana" and "éclair" last.
	assert.Equal(t, []string{"5", "2", "4", "3", "1"}, itemIDs(got[0].Items))
}

func TestOrderItemTiesKeepInputOrder(t *testing.T) {
	groups := GroupByCategory([]internal.DisplayMenuItem{
		item("b", "Tacos", "Pastor"),
		item("a", "Tacos", "Pastor"),
		item("c", "Tacos", "Asada"),
	})

	got := NewOrderer(nil, "es").Order(groups)
	assert.Equal(t, []string{"c", "b", "a"}, itemIDs(got[0].Items))
}

func TestOrderIsDeterministic(t *testing.T) {
	items := []internal.DisplayMenuItem{
		item("1", "Postres", "Flan"),
		item("2", "postres", "Churros"),
		item("3", "Café", "Americano"),
		item("4", "Cafe", "Latte"),
		item("5", "Waters", "Agua"),
	}
	o := NewOrderer([]string{"Waters"}, "es")

	first := o.Order(GroupByCategory(items))
	for i := 0; i < 10; i++ {
		again := o.Order(GroupByCategory(items))
		require.Equal(t, first, again)
	}
	assert.Len(t, first, 5)
	assert.Equal(t, "Waters", first[0].Name)
}

func TestOrderDoesNotMutateGroups(t *testing.T) {
	groups := GroupByCategory([]internal.DisplayMenuItem{
		item("1", "Tacos", "Pastor"),
		item("2", "Tacos", "Asada"),
	})
	_ = NewOrderer(nil, "es").Order(groups)

	tacos, _ := groups.Get("Tacos")
	assert.Equal(t, []string{"1", "2"}, itemIDs(tacos))
}

func TestOrdererBadLocaleFallsBack(t *testing.T) {
	groups := GroupByCategory([]internal.DisplayMenuItem{item("1", "B", "b"), item("2", "A", "a")})
	got := NewOrderer(nil, "not a locale!!").Order(groups)
	assert.Equal(t, []string{"A", "B"}, categoryNames(got))
}
