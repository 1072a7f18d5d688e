package transfer

// SuccessionKind distinguishes estate succession from life-insurance payout.
type SuccessionKind string

const (
	LegalSuccession         SuccessionKind = "LEGAL"
	LifeInsuranceSuccession SuccessionKind = "LIFE_INSURANCE"
)

// Inheritance is what one heir receives from a succession.
type Inheritance struct {
	Person string  `json:"person"`
	Brut   float64 `json:"brut"`
	Tax    float64 `json:"tax"`
	Net    float64 `json:"net"`
}

// Succession records the transmission of a decedent's rights in a year.
type Succession struct {
	Kind         SuccessionKind `json:"kind"`
	Year         int            `json:"year"`
	Decedent     string         `json:"decedent"`
	Inheritances []Inheritance  `json:"inheritances"`
}

// TotalBrut sums the gross value transmitted.
func (s Succession) TotalBrut() float64 {
	total := 0.0
	for _, i := range s.Inheritances {
		total += i.Brut
	}
	return total
}

// TotalTax sums the taxes due by all heirs.
func (s Succession) TotalTax() float64 {
	total := 0.0
	for _, i := range s.Inheritances {
		total += i.Tax
	}
	return total
}

// TotalNet sums the net value received.
func (s Succession) TotalNet() float64 {
	total := 0.0
	for _, i := range s.Inheritances {
		total += i.Net
	}
	return total
}

// Of returns the inheritance of person, if any.
func (s Succession) Of(person string) (Inheritance, bool) {
	for _, i := range s.Inheritances {
		if i.Person == person {
			return i, true
		}
	}
	return Inheritance{}, false
}
