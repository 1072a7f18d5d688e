package ownership

// =============================================================================
// EVALUATION CONTEXT
// =============================================================================

// EvaluationContext selects the fiscal valuation rule applied to an asset.
type EvaluationContext string

const (
	ContextPatrimoine                EvaluationContext = "PATRIMOINE"
	ContextIFI                       EvaluationContext = "IFI"
	ContextISF                       EvaluationContext = "ISF"
	ContextLegalSuccession           EvaluationContext = "LEGAL_SUCCESSION"
	ContextLifeInsuranceSuccession   EvaluationContext = "LIFE_INSURANCE_SUCCESSION"
	ContextLifeInsuranceTransmission EvaluationContext = "LIFE_INSURANCE_TRANSMISSION"
)

// IsWealthTax reports whether usufruct is taxed at full value in this context.
func (c EvaluationContext) IsWealthTax() bool {
	return c == ContextIFI || c == ContextISF
}

// splitsDismemberment reports whether a dismembered value is shared between
// usufructuaries and bare owners according to the barème.
func (c EvaluationContext) splitsDismemberment() bool {
	switch c {
	case ContextPatrimoine, ContextLegalSuccession, ContextLifeInsuranceSuccession:
		return true
	}
	return false
}

// =============================================================================
// PROVIDERS
// =============================================================================

// AgeProvider gives the age of a person at the end of a year.
type AgeProvider interface {
	Age(name string, year int) int
}

// Splitter splits a value between usufruct and bare ownership given the age
// of the usufructuary. Implementations must conserve value.
type Splitter interface {
	Split(value float64, usufructuaryAge int) (usufruct, bare float64)
}

// Valuation bundles the providers needed to value a dismembered asset.
// It is threaded explicitly through every call that values ownership.
type Valuation struct {
	Ages   AgeProvider
	Bareme Splitter
}

func (v Valuation) split(value float64, name string, year int) (float64, float64) {
	bareme := v.Bareme
	if bareme == nil {
		bareme = LegalBareme{}
	}
	age := 0
	if v.Ages != nil {
		age = v.Ages.Age(name, year)
	}
	return bareme.Split(value, age)
}

// =============================================================================
// LEGAL BAREME (art. 669 CGI)
// =============================================================================

// LegalBareme is the fiscal barème of the usufruct value by age.
type LegalBareme struct{}

type baremeStep struct {
	belowAge int
	usufruct float64
}

var legalSteps = []baremeStep{
	{21, 0.9},
	{31, 0.8},
	{41, 0.7},
	{51, 0.6},
	{61, 0.5},
	{71, 0.4},
	{81, 0.3},
	{91, 0.2},
}

// UsufructRate returns the usufruct share of the full value for an age.
func (LegalBareme) UsufructRate(age int) float64 {
	for _, step := range legalSteps {
		if age < step.belowAge {
			return step.usufruct
		}
	}
	return 0.1
}

// Split implements Splitter. The bare value is derived by difference so the
// two parts always add up to value.
func (b LegalBareme) Split(value float64, usufructuaryAge int) (float64, float64) {
	usufruct := value * b.UsufructRate(usufructuaryAge)
	return usufruct, value - usufruct
}
