package flatten

import "strings"

// Config carries the classification vocabularies and metadata stamped onto
// emitted rows. Vocabularies are injected rather than held as package state
// so the transform stays pure and testable with alternate shop wording.
type Config struct {
	// SupplyKeywords reclassify a PART row to SUPPLY when one of them
	// appears in the part's description or category.
	SupplyKeywords []string

	// FreightKeywords reclassify to FREIGHT, checked before supplies.
	FreightKeywords []string

	// IngestionSource is recorded on every row.
	IngestionSource string
}

func DefaultConfig() Config {
	return Config{
		SupplyKeywords: []string{
			"oil", "grease", "fluid", "coolant", "antifreeze",
			"lubricant", "sealant", "shop suppl", "cleaner",
		},
		FreightKeywords: []string{
			"freight", "shipping", "delivery",
		},
		IngestionSource: "fullbay_api",
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.SupplyKeywords == nil {
		c.SupplyKeywords = def.SupplyKeywords
	}
	if c.FreightKeywords == nil {
		c.FreightKeywords = def.FreightKeywords
	}
	if c.IngestionSource == "" {
		c.IngestionSource = def.IngestionSource
	}
	return c
}

func matchesVocab(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
