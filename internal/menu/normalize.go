package menu

import (
	"slices"
	"strings"

	"menuboard/internal"
	"menuboard/internal/config"
	"menuboard/internal/util"
)

// Normalizer turns raw backend records into display records. It never fails:
// malformed fields fall back to safe defaults.
type Normalizer struct {
	defaultDescription string
	placeholders       []string
}

func NewNormalizer(defaultDescription string, placeholders []string) *Normalizer {
	if defaultDescription == "" {
		defaultDescription = config.DefaultDescription
	}
	kept := make([]string, 0, len(placeholders))
	for _, p := range placeholders {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return &Normalizer{defaultDescription: defaultDescription, placeholders: kept}
}

func (n *Normalizer) Normalize(raw internal.RawMenuItem) internal.DisplayMenuItem {
	stock := util.ParseStock(raw.Stock)
	return internal.DisplayMenuItem{
		ID:          raw.ID,
		Category:    raw.Category,
		Name:        strings.TrimSpace(raw.Product),
		Price:       util.ParsePrice(raw.Price),
		Description: n.description(raw.Description),
		ImageURL:    raw.Image,
		Stock:       stock,
		Available:   stock > 0,
	}
}

func (n *Normalizer) NormalizeAll(raw []internal.RawMenuItem) []internal.DisplayMenuItem {
	out := make([]internal.DisplayMenuItem, 0, len(raw))
	for _, item := range raw {
		out = append(out, n.Normalize(item))
	}
	return out
}

// description keeps the backend text verbatim unless it is empty or exactly
// one of the configured placeholders.
func (n *Normalizer) description(raw string) string {
	if raw == "" || slices.Contains(n.placeholders, raw) {
		return n.defaultDescription
	}
	return raw
}
