package common

import (
	"github.com/spf13/viper"
)

// Config drives one extraction run.
type Config struct {
	ExcludedPages     map[int]bool
	NoisePhrases      []string
	Keywords          Keywords
	StructuralMarkers []string
	HeadlineFonts     []string
}

// DefaultConfig mirrors the embedded YAML defaults of the CLI.
func DefaultConfig() Config {
	return Config{
		ExcludedPages: map[int]bool{1: true, 2: true, 3: true},
		NoisePhrases:  []string{"Ονομασία", "Σύνολο", "Οικονομικό έτος"},
		Keywords: Keywords{
			Revenue:     "ΕΣΟΔΑ",
			Expenditure: "ΕΞΟΔΑ",
		},
		StructuralMarkers: []string{
			"Πιστώσεις κατά Φορέα",
			"Οικονομικό Έτος",
			"Τακτικός Προϋπολογισμός",
			"Συγχρηματοδοτούμενο σκέλος",
			"Εθνικό σκέλος",
		},
		HeadlineFonts: []string{"Bold", "Black", "Heavy", "Semibold", "Demi"},
	}
}

// LoadConfig reads the extraction.* keys, falling back to DefaultConfig for
// anything left unset.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if viper.IsSet("extraction.excluded_pages") {
		pages := map[int]bool{}
		for _, p := range viper.GetIntSlice("extraction.excluded_pages") {
			pages[p] = true
		}
		cfg.ExcludedPages = pages
	}
	if v := viper.GetStringSlice("extraction.noise_phrases"); len(v) > 0 {
		cfg.NoisePhrases = v
	}
	if v := viper.GetString("extraction.keywords.revenue"); v != "" {
		cfg.Keywords.Revenue = v
	}
	if v := viper.GetString("extraction.keywords.expenditure"); v != "" {
		cfg.Keywords.Expenditure = v
	}
	if v := viper.GetStringSlice("extraction.structural_markers"); len(v) > 0 {
		cfg.StructuralMarkers = v
	}
	if v := viper.GetStringSlice("extraction.headline_fonts"); len(v) > 0 {
		cfg.HeadlineFonts = v
	}

	return cfg
}
