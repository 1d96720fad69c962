package ecs

// Each2 iterates over entities holding live values of both A and B, in
// ascending id order. It walks the smaller container and probes the other.
func Each2[A, B any](s *Store, fn func(EntityID, A, B)) {
	ca, cb := Map[A](s), Map[B](s)
	if ca == nil || cb == nil {
		return
	}
	if ca.Len() <= cb.Len() {
		ca.Each(func(id EntityID, a A) {
			if b, ok := cb.Get(id); ok {
				fn(id, a, b)
			}
		})
		return
	}
	cb.Each(func(id EntityID, b B) {
		if a, ok := ca.Get(id); ok {
			fn(id, a, b)
		}
	})
}
