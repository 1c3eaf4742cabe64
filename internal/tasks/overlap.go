package tasks

// Validate checks candidate's window against every other timed entry.
// Untimed candidates always pass. Windows are half-open, so touching
// boundaries (one ends exactly where the other starts) are allowed.
//
// A start conflict is reported before an end conflict even if the end
// conflict was seen first.
func Validate(candidate Item, entries []Item) error {
	c, ok := candidate.Window()
	if !ok {
		return nil
	}

	var startConflict, endConflict *WindowError
	for _, other := range entries {
		if other.ItemID() == candidate.ItemID() {
			continue
		}
		o, ok := other.Window()
		if !ok {
			continue
		}

		if startConflict == nil && startsDuring(c, o) {
			startConflict = &WindowError{Boundary: BoundaryStart, ConflictID: other.ItemID()}
		}
		if endConflict == nil && endsDuring(c, o) {
			endConflict = &WindowError{Boundary: BoundaryEnd, ConflictID: other.ItemID()}
		}
	}

	if startConflict != nil {
		return startConflict
	}
	if endConflict != nil {
		return endConflict
	}
	return nil
}

func startsDuring(c, o Window) bool {
	inside := c.Start.After(o.Start) && c.Start.Before(o.End)
	return inside || c.Start.Equal(o.Start)
}

// endsDuring also catches a candidate that fully encloses the other window.
func endsDuring(c, o Window) bool {
	inside := c.End.After(o.Start) && c.End.Before(o.End)
	encloses := c.Start.Before(o.Start) && c.End.After(o.End)
	return inside || encloses || c.End.Equal(o.End)
}
