package relations

// Punct is returned for unseen POS pairs that look like punctuation.
const Punct = "P"

// Catalogue is the fixed fallback label set used when a POS pair was never
// observed in training and is not punctuation-like.
var Catalogue = []string{
	"ADV", "AMOD", "APPO", "BNF", "CONJ", "COORD", "DEP", "DIR",
	"DTV", "EXT", "EXTR", "GAP", "HMOD", "HYPH", "IM", "LGS",
	"LOC", "LOC-PRD", "MNR", "NAME", "NMOD", "OBJ", "OPRD", "P",
	"PMOD", "POSTHON", "PRD", "PRD-PRP", "PRN", "PRP", "PRT", "PUT",
	"ROOT", "SBJ", "SUB", "SUFFIX", "TITLE", "TMP", "VC", "VOC",
}

// InCatalogue reports whether label is one of the 40 catalogue labels.
func InCatalogue(label string) bool {
	for _, l := range Catalogue {
		if l == label {
			return true
		}
	}

	return false
}
