// Package ownership implements fractional ownership of family assets.
// An asset is either held in full ownership (PP) or dismembered between
// usufruct (UF) and bare ownership (NP). Fractions are percentages.
package ownership

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Tolerance used when comparing fractions and checking that a set sums to 100.
const Tolerance = 1e-4

var (
	ErrOwnerNotFound = errors.New("owner not found")
	ErrNoNewOwners   = errors.New("no new owners")
	ErrNoOtherOwners = errors.New("no other owners to redistribute to")
	ErrInvalidOwners = errors.New("invalid owner set")
)

// =============================================================================
// OWNER
// =============================================================================

// Owner is one holder of a right and its fraction (percent in [0,100]).
type Owner struct {
	Name     string  `json:"name" yaml:"name"`
	Fraction float64 `json:"fraction" yaml:"fraction"`
}

// NormalizeName returns the comparison key of an owner name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameName reports whether two owner names designate the same person.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// =============================================================================
// OWNER SET
// =============================================================================

// OwnerSet is an ordered collection of owners of the same right.
type OwnerSet []Owner

// NewOwnerSet shares 100% equally between names.
func NewOwnerSet(names ...string) OwnerSet {
	if len(names) == 0 {
		return OwnerSet{}
	}
	share := 100.0 / float64(len(names))
	set := make(OwnerSet, 0, len(names))
	for _, n := range names {
		set = append(set, Owner{Name: n, Fraction: share})
	}
	return set
}

// Sum returns the total of all fractions.
func (s OwnerSet) Sum() float64 {
	total := 0.0
	for _, o := range s {
		total += o.Fraction
	}
	return total
}

func (s OwnerSet) indexOf(name string) int {
	for i, o := range s {
		if SameName(o.Name, name) {
			return i
		}
	}
	return -1
}

// Contains reports whether name holds an entry in the set.
func (s OwnerSet) Contains(name string) bool {
	return s.indexOf(name) >= 0
}

// Fraction returns the cumulated fraction held by name (0 when absent).
func (s OwnerSet) Fraction(name string) float64 {
	total := 0.0
	for _, o := range s {
		if SameName(o.Name, name) {
			total += o.Fraction
		}
	}
	return total
}

// Names returns the owner names in set order.
func (s OwnerSet) Names() []string {
	names := make([]string, 0, len(s))
	for _, o := range s {
		names = append(names, o.Name)
	}
	return names
}

// Clone returns a copy that shares no memory with s.
func (s OwnerSet) Clone() OwnerSet {
	if s == nil {
		return nil
	}
	c := make(OwnerSet, len(s))
	copy(c, s)
	return c
}

// Validate checks names are set and distinct, fractions are non-negative and
// the total is 100 whenever the set is not empty.
func (s OwnerSet) Validate() error {
	if len(s) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(s))
	for _, o := range s {
		key := NormalizeName(o.Name)
		if key == "" {
			return fmt.Errorf("%w: empty owner name", ErrInvalidOwners)
		}
		if seen[key] {
			return fmt.Errorf("%w: duplicate owner '%s'", ErrInvalidOwners, o.Name)
		}
		seen[key] = true
		if o.Fraction < 0 {
			return fmt.Errorf("%w: negative fraction %.4f for '%s'", ErrInvalidOwners, o.Fraction, o.Name)
		}
	}
	if sum := s.Sum(); math.Abs(sum-100) > Tolerance {
		return fmt.Errorf("%w: fractions sum to %.6f instead of 100", ErrInvalidOwners, sum)
	}
	return nil
}

// IsValid is the boolean form of Validate.
func (s OwnerSet) IsValid() bool {
	return s.Validate() == nil
}

// Equal compares two sets regardless of order, within Tolerance.
// Both sets are expected to be grouped.
func (s OwnerSet) Equal(other OwnerSet) bool {
	a, b := s.GroupShares(), other.GroupShares()
	if len(a) != len(b) {
		return false
	}
	for _, o := range a {
		if !b.Contains(o.Name) {
			return false
		}
		if math.Abs(b.Fraction(o.Name)-o.Fraction) > Tolerance {
			return false
		}
	}
	return true
}

// Replace removes owner and shares its fraction equally among newOwners.
// A new owner already in the set gets its share added to its entry.
func (s OwnerSet) Replace(owner string, newOwners []string) (OwnerSet, error) {
	weights := make(map[string]float64, len(newOwners))
	order := make([]string, 0, len(newOwners))
	for _, n := range newOwners {
		if _, ok := weights[n]; !ok {
			order = append(order, n)
		}
		weights[n] += 1
	}
	return s.transfer(owner, order, weights)
}

// Transfer removes owner and distributes its fraction among the heirs in
// proportion to the given weights. Names are processed in sorted order so
// the result is deterministic.
func (s OwnerSet) Transfer(owner string, weights map[string]float64) (OwnerSet, error) {
	order := make([]string, 0, len(weights))
	for n := range weights {
		order = append(order, n)
	}
	sort.Strings(order)
	return s.transfer(owner, order, weights)
}

func (s OwnerSet) transfer(owner string, order []string, weights map[string]float64) (OwnerSet, error) {
	idx := s.indexOf(owner)
	if idx < 0 {
		return s, fmt.Errorf("%w: '%s'", ErrOwnerNotFound, owner)
	}
	totalWeight := 0.0
	for _, n := range order {
		if weights[n] > 0 {
			totalWeight += weights[n]
		}
	}
	if len(order) == 0 || totalWeight == 0 {
		return s, ErrNoNewOwners
	}

	share := s.Fraction(owner)
	result := make(OwnerSet, 0, len(s)+len(order))
	for _, o := range s {
		if !SameName(o.Name, owner) {
			result = append(result, o)
		}
	}
	for _, n := range order {
		w := weights[n]
		if w <= 0 {
			continue
		}
		result = append(result, Owner{Name: n, Fraction: share * w / totalWeight})
	}
	return result.GroupShares(), nil
}

// RedistributeShare removes owner and spreads its fraction over the
// remaining owners in proportion to what they already hold.
func (s OwnerSet) RedistributeShare(owner string) (OwnerSet, error) {
	if s.indexOf(owner) < 0 {
		return s, fmt.Errorf("%w: '%s'", ErrOwnerNotFound, owner)
	}
	share := s.Fraction(owner)
	remaining := make(OwnerSet, 0, len(s))
	for _, o := range s {
		if !SameName(o.Name, owner) {
			remaining = append(remaining, o)
		}
	}
	rest := remaining.Sum()
	if len(remaining) == 0 || rest <= 0 {
		return s, fmt.Errorf("%w: '%s' is the sole owner", ErrNoOtherOwners, owner)
	}
	for i := range remaining {
		remaining[i].Fraction += share * remaining[i].Fraction / rest
	}
	return remaining.GroupShares(), nil
}

// GroupShares merges entries of the same owner and drops zero fractions.
// The first occurrence of a name fixes its position.
func (s OwnerSet) GroupShares() OwnerSet {
	grouped := make(OwnerSet, 0, len(s))
	for _, o := range s {
		if i := grouped.indexOf(o.Name); i >= 0 {
			grouped[i].Fraction += o.Fraction
			continue
		}
		grouped = append(grouped, Owner{Name: strings.TrimSpace(o.Name), Fraction: o.Fraction})
	}
	result := grouped[:0]
	for _, o := range grouped {
		if o.Fraction > Tolerance/10 {
			result = append(result, o)
		}
	}
	return result
}

// Scaled returns the set with every fraction multiplied by factor.
func (s OwnerSet) Scaled(factor float64) OwnerSet {
	c := s.Clone()
	for i := range c {
		c[i].Fraction *= factor
	}
	return c
}

// Merge concatenates sets (no grouping).
func Merge(sets ...OwnerSet) OwnerSet {
	var merged OwnerSet
	for _, s := range sets {
		merged = append(merged, s...)
	}
	return merged
}

// Without returns the set minus the entries of the given owner.
func (s OwnerSet) Without(owner string) OwnerSet {
	result := make(OwnerSet, 0, len(s))
	for _, o := range s {
		if !SameName(o.Name, owner) {
			result = append(result, o)
		}
	}
	return result
}
