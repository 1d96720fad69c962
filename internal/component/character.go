package component

// Name is the display name of an actor.
type Name string

// Health tracks hit points. Temporary points are spent before Current.
type Health struct {
	Current   int
	Max       int
	Temporary int
}

// Heal raises Current by amount without exceeding Max. A zero Max means
// the actor has no cap.
func (h Health) Heal(amount int) Health {
	h.Current += amount
	if h.Max > 0 && h.Current > h.Max {
		h.Current = h.Max
	}
	return h
}

// Damage removes amount, draining Temporary first. Current may go negative.
func (h Health) Damage(amount int) Health {
	if amount <= 0 {
		return h
	}
	if h.Temporary >= amount {
		h.Temporary -= amount
		return h
	}
	amount -= h.Temporary
	h.Temporary = 0
	h.Current -= amount
	return h
}

func (h Health) Down() bool { return h.Current <= 0 }
