package sds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type extractCase struct {
	name string
	text string
	want string
}

func runExtractCases(t *testing.T, fn ExtractFunc, tests []extractCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fn(tt.text).String())
		})
	}
}

func TestExtractCASNumber(t *testing.T) {
	runExtractCases(t, ExtractCASNumber, []extractCase{
		{"labelled dash form", "CAS-No.: 67-64-1", "67-64-1"},
		{"labelled number form", "CAS number 7732-18-5", "7732-18-5"},
		{"bracketed", "【CAS】 64-17-5", "64-17-5"},
		{"label beats earlier bare token", "Ref 12-34-5\nCAS No. 64-17-5", "64-17-5"},
		{"bare fallback", "Acetone 67-64-1 99 %", "67-64-1"},
		{"none", "No registry number here", NDA},
	})
}

func TestValidCASCheckDigit(t *testing.T) {
	assert.True(t, ValidCASCheckDigit("67-64-1"))
	assert.True(t, ValidCASCheckDigit("7732-18-5"))
	assert.False(t, ValidCASCheckDigit("67-64-2"))
	assert.False(t, ValidCASCheckDigit("not-a-cas"))
}

func TestExtractMaterialName(t *testing.T) {
	runExtractCases(t, ExtractMaterialName, []extractCase{
		{"product name", "Product name: Acetone\nMore", "Acetone"},
		{"material name", "Material Name: Ethanol 96%", "Ethanol 96%"},
		{"company rejected", "Product name: Acme Chemical Company Ltd\nChemical name: Ethanol", "Ethanol"},
		{"slash rejected", "Product name: Acetone / Propanone\n", NDA},
		{"none", "Section 2: Hazards", NDA},
	})
}

func TestExtractTradeName(t *testing.T) {
	runExtractCases(t, ExtractTradeName, []extractCase{
		{"with synonyms", "Trade Name & Synonyms: Acetone, Dimethyl ketone", "Acetone, Dimethyl ketone"},
		{"plain", "Trade name: Propanone", "Propanone"},
		{"none", "Product name: Acetone", NDA},
	})
}

func TestExtractPhysicalState(t *testing.T) {
	runExtractCases(t, ExtractPhysicalState, []extractCase{
		{"physical state", "Physical state: Liquid.\nColour: none", "Liquid"},
		{"with temperature", "Physical state at 20 °C: solid", "solid"},
		{"appearance", "Appearance: Clear colourless liquid", "Clear colourless liquid"},
		{"value on next line", "Physical state:\nLiquid", "Liquid"},
		{"blank line ends label", "Physical state:\n\nSECTION 10: Stability", NDA},
		{"none", "Odour: sweet", NDA},
	})
}

func TestExtractStaticHazard(t *testing.T) {
	runExtractCases(t, ExtractStaticHazard, []extractCase{
		{"static terminology", "Take precautionary measures against static discharge.", StaticHazardYes},
		{"grounding", "Ground and bond container and receiving equipment.", StaticHazardYes},
		{"wrapped grounding", "Ground/bond\ncontainer and receiving equipment.", StaticHazardYes},
		{"wrapped prevention", "Take measures to prevent the\nbuild-up of static.", StaticHazardYes},
		{"wrapped bonding", "Use grounding and\r\nbonding when transferring.", StaticHazardYes},
		{"explicit denial", "No static hazard.", StaticHazardNo},
		{"handling section without static", "SECTION 7: Handling and storage\nKeep container tightly closed.", StaticHazardNo},
		{"nothing to judge", "Random text", NDA},
	})
}

func TestExtractVapourPressure(t *testing.T) {
	runExtractCases(t, ExtractVapourPressure, []extractCase{
		{"with temperature", "Vapour pressure: 24.7 kPa at 20 °C", "24.7 kPa at 20 °C"},
		{"american spelling", "Vapor pressure (mmHg): 185", "185"},
		{"invalid value", "Vapour pressure: not determined", NDA},
	})
}

func TestExtractFlashPoint(t *testing.T) {
	runExtractCases(t, ExtractFlashPoint, []extractCase{
		{"negative", "Flash point: -20 °C (closed cup)", "-20"},
		{"unit paren", "Flash point (°C) : 12,5", "12.5"},
		{"later occurrence", "Flash point: not applicable\nFlash point (closed cup): 13 °C", "13"},
		{"value on next line", "Flash point:\n-20 °C", "-20"},
		{"spaced dash", "Flash point - 13 °C", "13"},
		{"blank line ends label", "Flash point:\n\n\n10. STABILITY AND REACTIVITY", NDA},
		{"bare label before blank line", "Flash point\n\n10. STABILITY AND REACTIVITY", NDA},
		{"none", "Boiling point: 56 °C", NDA},
	})
}

func TestExtractFlammableLimits(t *testing.T) {
	runExtractCases(t, ExtractFlammableLimits, []extractCase{
		{"same line", "LEL: 2.5 %  UEL: 12.8 %", "LEL: 2.5%, UEL: 12.8%"},
		{"across lines", "Lower explosive limit: 2.5 %\nUpper explosive limit: 12.8 %", "LEL: 2.5%, UEL: 12.8%"},
		{"range", "Explosive limits: 1.2 - 8.0 %", "LEL: 1.2%, UEL: 8.0%"},
		{"lower only", "Lower explosive limit: 2 %", "LEL: 2%"},
		{"non flammable", "The product is not flammable.", NonFlammable},
		{"none", "Colour: none", NDA},
	})
}

func TestExtractMeltingAndBoilingPoint(t *testing.T) {
	runExtractCases(t, ExtractMeltingPoint, []extractCase{
		{"melting/freezing", "Melting point/freezing point: -95 °C", "-95"},
		{"freezing point", "Freezing point: 0 °C", "0"},
		{"blank line ends label", "Melting point:\n\nSECTION 12: ECOLOGICAL INFORMATION", NDA},
	})
	runExtractCases(t, ExtractBoilingPoint, []extractCase{
		{"initial boiling range", "Initial boiling point and boiling range: 56 °C", "56"},
		{"boiling point", "Boiling point: 78,3 °C", "78.3"},
		{"none", "Melting point: 12 °C", NDA},
	})
}

func TestExtractDensity(t *testing.T) {
	runExtractCases(t, ExtractDensity, []extractCase{
		{"bare density", "Density: 0.79 g/cm3 at 20 °C", "0.79 g/cm3 at 20 °C"},
		{"relative beats vapour", "Vapour density: 2.0\nRelative density: 0.79 (water = 1)", "0.79 (water = 1)"},
		{"invalid skipped", "Relative density: not determined\nDensity: 1.2 g/cm3", "1.2 g/cm3"},
		{"vapour density only", "Vapour density: 2.0", NDA},
		{"specific gravity", "Specific gravity: 1.05", "1.05"},
	})
}

func TestExtractVapourDensity(t *testing.T) {
	runExtractCases(t, ExtractVapourDensity, []extractCase{
		{"air qualifier", "Relative vapour density (air = 1): 2.0", "2.0"},
		{"plain", "Vapor density: 1.59", "1.59"},
		{"placeholder", "Vapour density: N/A", NDA},
	})
}

func TestExtractIgnitionTemperature(t *testing.T) {
	runExtractCases(t, ExtractIgnitionTemperature, []extractCase{
		{"auto ignition", "Auto-ignition temperature: 465 °C", "465"},
		{"verbatim commas", "Ignition temperature: 1,200 °C", "1,200"},
		{"value on next line", "Auto-ignition temperature:\n465 °C", "465"},
		{"blank line ends label", "Auto-ignition temperature:\n\n10. STABILITY AND REACTIVITY", NDA},
		{"none", "Flash point: 12 °C", NDA},
	})
}

func TestExtractLD50(t *testing.T) {
	runExtractCases(t, ExtractLD50, []extractCase{
		{"species paren", "LD50 oral (rat): > 2000 mg/kg", "2000"},
		{"contextual", "LD50 Oral - Rat - 5,800 mg/kg", "5,800"},
		{"subscript", "LD₅₀ (dermal): 1500 mg/kg", "1500"},
		{"unit required", "LD50: 2000", NDA},
	})
}

func TestExtractLC50(t *testing.T) {
	runExtractCases(t, ExtractLC50, []extractCase{
		{"inhalation", "LC50 (inhalation) 4 h: 20 mg/L", "20"},
		{"aquatic skipped", "LC50 (96 h) 10 mg/l (Pimephales promelas)\nLC50 inhalation rat: 5 ppm", "5"},
		{"fish only", "LC50 Fish: 10 mg/l", NDA},
	})
}

func TestExtractThresholdLimitValue(t *testing.T) {
	runExtractCases(t, ExtractThresholdLimitValue, []extractCase{
		{"twa", "TWA: 500 ppm", "500"},
		{"acgih", "ACGIH TLV-TWA 1,000 ppm", "1,000"},
		{"simple line", "TLV: 50", "50"},
		{"none", "Exposure limits: none established", NDA},
	})
}

func TestExtractIDLH(t *testing.T) {
	runExtractCases(t, ExtractIDLH, []extractCase{
		{"labelled", "IDLH: 2500 ppm", "2500"},
		{"blank line ends label", "IDLH:\n\n12. Ecological information", NDA},
		{"in parentheses", "Immediately Dangerous to Life or Health (IDLH): 2500 ppm", "2500"},
		{"none", "TWA: 500 ppm", NDA},
	})
}
