package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menuboard/internal"
	"menuboard/internal/config"
)

func sampleRaw() []internal.RawMenuItem {
	return []internal.RawMenuItem{
		{ID: "1", Category: "Tacos", Product: " Pastor ", Price: "$45", Stock: "10", Description: "Con piña"},
		{ID: "2", Category: "Waters", Product: "Agua de Jamaica", Price: "25.50", Stock: "0"},
		{ID: "3", Category: "Tacos", Product: "Asada", Price: "50", Stock: "abc", Description: "Sin descripción disponible"},
		{ID: "4", Category: "Alpha", Product: "Café de olla", Price: "N/A", Stock: "2", Description: "Canela y piloncillo"},
		{ID: "5", Category: "Zeta", Product: "Flan", Price: "30", Stock: "1"},
		{ID: "1", Category: "Zeta", Product: "Duplicate id", Price: "1", Stock: "1"},
	}
}

func testBuilder(priority ...string) *Builder {
	return NewBuilder(testNormalizer(), NewOrderer(priority, "es"))
}

func TestBuildPreservesCount(t *testing.T) {
	raw := sampleRaw()
	m := testBuilder("Waters").Build(raw)

	assert.Equal(t, len(raw), m.ItemCount())
	assert.Equal(t, []string{"Waters", "Alpha", "Tacos", "Zeta"}, m.CategoryNames())
	assert.Equal(t, []string{"3", "1"}, itemIDs(m.ItemsByCategory("Tacos")))
}

func TestItemsByCategoryUnknownIsEmpty(t *testing.T) {
	m := testBuilder().Build(sampleRaw())

	got := m.ItemsByCategory("tacos")
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, Empty().ItemsByCategory("anything"))
}

func TestItemByID(t *testing.T) {
	m := testBuilder().Build(sampleRaw())

	got, ok := m.ItemByID("1")
	require.True(t, ok)
	assert.Equal(t, "Pastor", got.Name, "first item in fetch order wins")

	_, ok = m.ItemByID("missing")
	assert.False(t, ok)
}

func TestAccessorsReturnCopies(t *testing.T) {
	m := testBuilder().Build(sampleRaw())

	cats := m.Categories()
	cats[0].Items[0].Name = "mutated"
	cats[0].Name = "mutated"
	items := m.ItemsByCategory("Tacos")
	items[0].Name = "mutated"

	assert.NotEqual(t, "mutated", m.Categories()[0].Name)
	assert.NotEqual(t, "mutated", m.Categories()[0].Items[0].Name)
	assert.NotEqual(t, "mutated", m.ItemsByCategory("Tacos")[0].Name)
}

func TestInStock(t *testing.T) {
	m := testBuilder("Waters").Build(sampleRaw()).InStock()

	assert.Equal(t, []string{"Alpha", "Tacos", "Zeta"}, m.CategoryNames())
	assert.Equal(t, []string{"1"}, itemIDs(m.ItemsByCategory("Tacos")))
	_, ok := m.ItemByID("2")
	assert.False(t, ok)
}

func TestFilterSearchIsAccentInsensitive(t *testing.T) {
	m := testBuilder().Build(sampleRaw())

	got := m.Filter(Filter{SearchTerm: "CAFE"})
	assert.Equal(t, []string{"Alpha"}, got.CategoryNames())

	got = m.Filter(Filter{SearchTerm: "pina"})
	assert.Equal(t, []string{"1"}, itemIDs(got.Items()))

	got = m.Filter(Filter{SearchTerm: "nothing like this"})
	assert.Empty(t, got.Categories())
}

func TestFilterSearchMatchesEveryWord(t *testing.T) {
	m := testBuilder().Build(sampleRaw())

	got := m.Filter(Filter{SearchTerm: "olla  CAFÉ"})
	assert.Equal(t, []string{"4"}, itemIDs(got.Items()))

	got = m.Filter(Filter{SearchTerm: "cafe canela"})
	assert.Equal(t, []string{"4"}, itemIDs(got.Items()), "words may come from name and description")

	got = m.Filter(Filter{SearchTerm: "cafe jamaica"})
	assert.Empty(t, got.Items())

	got = m.Filter(Filter{SearchTerm: "y"})
	assert.Equal(t, []string{"4"}, itemIDs(got.Items()), "short terms match as a whole")
}

func TestFilterPriceAndCategory(t *testing.T) {
	m := testBuilder().Build(sampleRaw())
	minPrice, maxPrice := 26.0, 48.0

	got := m.Filter(Filter{MinPrice: &minPrice, MaxPrice: &maxPrice})
	assert.Equal(t, []string{"Tacos", "Zeta"}, got.CategoryNames())
	assert.Equal(t, []string{"1", "5"}, itemIDs(got.Items()))

	got = m.Filter(Filter{Category: "Tacos", MinPrice: &minPrice})
	assert.Equal(t, []string{"Tacos"}, got.CategoryNames())
	assert.Equal(t, []string{"3", "1"}, itemIDs(got.ItemsByCategory("Tacos")))
}

func TestFromCategoriesRoundTrip(t *testing.T) {
	m := testBuilder("Waters").Build(sampleRaw())
	restored := FromCategories(m.Categories())

	assert.Equal(t, m.Categories(), restored.Categories())
	got, ok := restored.ItemByID("4")
	require.True(t, ok)
	assert.Equal(t, "Café de olla", got.Name)
}

func TestBuilderFromConfig(t *testing.T) {
	cfg := config.Config{
		Locale:                  "es",
		CategoryPriority:        []string{"Zeta"},
		DefaultDescription:      "n/d",
		DescriptionPlaceholders: []string{"none"},
	}
	m := NewBuilderFromConfig(cfg).Build(sampleRaw())

	assert.Equal(t, "Zeta", m.CategoryNames()[0])
	got, _ := m.ItemByID("2")
	assert.Equal(t, "n/d", got.Description)
}
