package domain

// AggregatePersonKey is the key used when the product defines a single
// aggregate participant count instead of typed participant categories.
const AggregatePersonKey int64 = 0

// PersonMap maps a participant-type identifier to a count.
// Empty if the product has no participant dimension.
type PersonMap map[int64]int

// Equal reports structural equality of two person mappings
func (p PersonMap) Equal(other PersonMap) bool {
	if len(p) != len(other) {
		return false
	}
	for key, count := range p {
		if other[key] != count {
			return false
		}
	}
	return true
}

// Total returns the total participant count across all types
func (p PersonMap) Total() int {
	total := 0
	for _, count := range p {
		total += count
	}
	return total
}

// IsAggregate reports whether the mapping holds a single untyped count
func (p PersonMap) IsAggregate() bool {
	_, ok := p[AggregatePersonKey]
	return ok && len(p) == 1
}
