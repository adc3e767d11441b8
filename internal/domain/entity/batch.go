package entity

// Batch accumulates fare observations for one run, keyed by flight id.
// Adding an id twice keeps the first position and the last value.
type Batch struct {
	order []string
	items map[string]*FareObservation
}

func NewBatch() *Batch {
	return &Batch{items: make(map[string]*FareObservation)}
}

// Add stores obs under its flight id
func (b *Batch) Add(obs *FareObservation) {
	if obs == nil {
		return
	}
	if _, ok := b.items[obs.FlightID]; !ok {
		b.order = append(b.order, obs.FlightID)
	}
	b.items[obs.FlightID] = obs
}

// Items returns the observations in insertion order
func (b *Batch) Items() []*FareObservation {
	out := make([]*FareObservation, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.items[id])
	}
	return out
}

func (b *Batch) Len() int {
	return len(b.order)
}
