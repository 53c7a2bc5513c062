package variables

// OrderedDemands returns every demanded (class, subject) pair in a stable
// (class, subject) order, so callers that need deterministic iteration over
// a Go map (construction, the greedy fallback) get the same order for the
// same input.
func OrderedDemands(m *Model) []ClassSubject {
	order := make([]ClassSubject, 0, len(m.Demand))
	for cs := range m.Demand {
		order = append(order, cs)
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && less(order[j], order[j-1]); j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order
}

func less(a, b ClassSubject) bool {
	if a.Class != b.Class {
		return a.Class < b.Class
	}
	return a.Subject < b.Subject
}
