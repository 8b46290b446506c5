package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{"rain", "LLUVIAS INTENSAS EN LA SIERRA", "LLUVIA INTENSA"},
		{"storm", "Tormenta eléctrica", "LLUVIA INTENSA"},
		{"landslide", "DESLIZAMIENTO DE TIERRA", "DESLIZAMIENTO"},
		{"rockfall", "DERRUMBE DE CERRO", "DESLIZAMIENTO"},
		{"flood", "INUNDACION POR DESBORDE", "INUNDACION"},
		{"quake", "SISMO DE 5.6", "SISMO"},
		{"quake synonym", "terremoto", "SISMO"},
		{"cold wave", "HELADA EN PUNO", "HELADA"},
		{"cold synonym", "FRIO EXTREMO", "HELADA"},
		{"drought", "SEQUIA PROLONGADA", "SEQUIA"},
		{"wildfire", "INCENDIO DE PASTIZALES", "INCENDIO FORESTAL"},
		{"fire synonym", "FUEGO DESCONTROLADO", "INCENDIO FORESTAL"},
		{"vandalism", "VANDALISMO EN VIA PUBLICA", "VANDALISMO"},
		{"accident", "ACCIDENTE DE TRANSITO", "ACCIDENTE"},
		{"unmatched passes through", "PLAGA DE LANGOSTAS", "PLAGA DE LANGOSTAS"},
		{"empty maps to OTRO", "", "OTRO"},
		{"case insensitive", "lluvia moderada", "LLUVIA INTENSA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.label))
		})
	}
}

// LLUVIAS E INUNDACIONES contains needles for two rules; the earlier rule
// must win so classification stays deterministic.
func TestClassifyRuleOrderPrecedence(t *testing.T) {
	assert.Equal(t, "LLUVIA INTENSA", Classify("LLUVIAS E INUNDACIONES"))
}
