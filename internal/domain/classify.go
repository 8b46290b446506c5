package domain

import "strings"

// classificationRule maps substring needles to a canonical emergency category.
type classificationRule struct {
	canonical string
	needles   []string
}

// classificationRules is ordered: the first rule with a matching needle wins.
// Order is significant because labels can contain overlapping substrings;
// "LLUVIAS E INUNDACIONES" must classify as LLUVIA INTENSA, not INUNDACION.
var classificationRules = []classificationRule{
	{"LLUVIA INTENSA", []string{"LLUVIA", "TORMENTA"}},
	{"DESLIZAMIENTO", []string{"DESLIZA", "DERRUMBE"}},
	{"INUNDACION", []string{"INUNDA"}},
	{"SISMO", []string{"SISMO", "TERREMOTO"}},
	{"HELADA", []string{"HELADA", "FRIO"}},
	{"SEQUIA", []string{"SEQUIA", "DÉFICIT"}},
	{"INCENDIO FORESTAL", []string{"INCENDIO", "FUEGO"}},
	{"VANDALISMO", []string{"VANDALISMO"}},
	{"ACCIDENTE", []string{"ACCIDENTE"}},
}

// Classify maps a raw phenomenon label to a canonical emergency category via
// case-insensitive substring matching. Unmatched labels pass through verbatim;
// an empty label maps to "OTRO".
func Classify(raw string) string {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	for _, rule := range classificationRules {
		for _, needle := range rule.needles {
			if strings.Contains(upper, needle) {
				return rule.canonical
			}
		}
	}
	if upper == "" {
		return "OTRO"
	}
	return raw
}
