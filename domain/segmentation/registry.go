package segmentation

import "sync"

// Registry holds the algorithm catalog in declaration order.
type Registry struct {
	algorithms map[AlgorithmType]*Algorithm
	order      []AlgorithmType
	mu         sync.RWMutex
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		algorithms: make(map[AlgorithmType]*Algorithm),
	}
}

// Register adds an algorithm. Re-registering a type replaces it in place.
func (r *Registry) Register(alg *Algorithm) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.algorithms[alg.Type]; !exists {
		r.order = append(r.order, alg.Type)
	}
	r.algorithms[alg.Type] = alg
}

// Get retrieves an algorithm by type.
// Returns nil if not found.
func (r *Registry) Get(t AlgorithmType) *Algorithm {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.algorithms[t]
}

// Lookup is like Get but reports ErrUnknownAlgorithm.
func (r *Registry) Lookup(t AlgorithmType) (*Algorithm, error) {
	if t == "" {
		return nil, ErrNoAlgorithm
	}
	if alg := r.Get(t); alg != nil {
		return alg, nil
	}
	return nil, ErrUnknownAlgorithm
}

// FindByLabel returns the algorithm with the given display label, or nil.
func (r *Registry) FindByLabel(label string) *Algorithm {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.order {
		if alg := r.algorithms[t]; alg.Label == label {
			return alg
		}
	}
	return nil
}

// All returns the algorithms in declaration order.
func (r *Registry) All() []*Algorithm {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Algorithm, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.algorithms[t])
	}
	return out
}

// Labels returns the display labels in declaration order.
func (r *Registry) Labels() []string {
	all := r.All()
	labels := make([]string, len(all))
	for i, alg := range all {
		labels[i] = alg.Label
	}
	return labels
}

// Count returns the number of registered algorithms.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.algorithms)
}
