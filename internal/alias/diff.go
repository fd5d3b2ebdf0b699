package alias

import "fmt"

// Change lists the alias names that differ between two maps.
type Change struct {
	Added   []string `json:"added"`
	Changed []string `json:"changed"`
	Removed []string `json:"removed"`
}

// Diff compares next against prev. Added and Changed follow next's order;
// Removed follows prev's order.
func Diff(prev, next *Map) Change {
	if prev == nil {
		prev = New()
	}
	if next == nil {
		next = New()
	}

	var c Change
	for _, p := range next.Pairs() {
		old, ok := prev.Get(p.Name)
		switch {
		case !ok:
			c.Added = append(c.Added, p.Name)
		case old != p.Commands:
			c.Changed = append(c.Changed, p.Name)
		}
	}
	for _, name := range prev.Keys() {
		if _, ok := next.Get(name); !ok {
			c.Removed = append(c.Removed, name)
		}
	}
	return c
}

// Empty reports whether the maps hold the same aliases.
func (c Change) Empty() bool {
	return len(c.Added) == 0 && len(c.Changed) == 0 && len(c.Removed) == 0
}

// String summarizes the change as counts.
func (c Change) String() string {
	return fmt.Sprintf("%d added, %d changed, %d removed", len(c.Added), len(c.Changed), len(c.Removed))
}

// Merge returns a copy of base with every alias from overlay set on it.
// Aliases already in base keep their position.
func Merge(base, overlay *Map) *Map {
	out := New()
	if base != nil {
		out = base.Clone()
	}
	if overlay != nil {
		for _, p := range overlay.Pairs() {
			out.Set(p.Name, p.Commands)
		}
	}
	return out
}
