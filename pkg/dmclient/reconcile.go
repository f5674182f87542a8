package dmclient

// Diff lists message ids that appeared or disappeared between two states.
type Diff struct {
	Added   []string
	Removed []string
}

// Empty reports whether nothing changed.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Reconcile compares two message lists by id. Added keeps the order of next
// and Removed the order of prev.
func Reconcile(prev, next []DecodedMessage) Diff {
	before := make(map[string]struct{}, len(prev))
	for _, m := range prev {
		before[m.ID] = struct{}{}
	}
	after := make(map[string]struct{}, len(next))
	for _, m := range next {
		after[m.ID] = struct{}{}
	}

	var d Diff
	for _, m := range next {
		if _, ok := before[m.ID]; !ok {
			d.Added = append(d.Added, m.ID)
		}
	}
	for _, m := range prev {
		if _, ok := after[m.ID]; !ok {
			d.Removed = append(d.Removed, m.ID)
		}
	}
	return d
}
