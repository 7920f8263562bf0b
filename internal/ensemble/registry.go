package ensemble

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultWeight is the multiplier applied to an adapter's stacked features
// when no explicit weight is registered.
const DefaultWeight = 1.0

// RegistryEntry pairs an adapter with its stacking weight.
type RegistryEntry struct {
	Name         string
	Model        BaseModel
	Weight       float64
	RegisteredAt time.Time
}

// Snapshot is an immutable view of the registry. Readers obtain a snapshot
// once per prediction and never observe a partially applied update.
type Snapshot struct {
	entries []RegistryEntry
	index   map[string]int
}

// Entries returns the registered adapters in registration order.
func (s *Snapshot) Entries() []RegistryEntry {
	return s.entries
}

// Len returns the number of registered adapters.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Weight returns the stacking weight for an adapter, defaulting to 1.0 for
// absent entries.
func (s *Snapshot) Weight(name string) float64 {
	if i, ok := s.index[name]; ok {
		return s.entries[i].Weight
	}
	return DefaultWeight
}

// Registry holds the named collection of base model adapters and their
// weights. Updates build a fresh snapshot and swap it in atomically; in-place
// mutation under concurrent readers is never allowed.
type Registry struct {
	mu       sync.Mutex
	snapshot *Snapshot
	logger   *logrus.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *logrus.Logger) *Registry {
	r := &Registry{logger: logger}
	r.snapshot = &Snapshot{index: make(map[string]int)}
	return r
}

// Register adds an adapter under a unique name. Registration is idempotent
// by name: re-registering overwrites the adapter and its weight.
func (r *Registry) Register(name string, model BaseModel, weight float64) {
	if weight <= 0 {
		weight = DefaultWeight
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.snapshot
	entries := make([]RegistryEntry, len(old.entries))
	copy(entries, old.entries)
	index := make(map[string]int, len(old.index)+1)
	for k, v := range old.index {
		index[k] = v
	}

	entry := RegistryEntry{Name: name, Model: model, Weight: weight, RegisteredAt: time.Now()}
	if i, exists := index[name]; exists {
		entries[i] = entry
		r.logger.WithFields(logrus.Fields{
			"adapter": name,
			"weight":  weight,
		}).Info("Re-registered base model adapter")
	} else {
		index[name] = len(entries)
		entries = append(entries, entry)
		r.logger.WithFields(logrus.Fields{
			"adapter": name,
			"weight":  weight,
		}).Info("Registered base model adapter")
	}

	r.snapshot = &Snapshot{entries: entries, index: index}
}

// UpdateWeight changes the stacking weight for a registered adapter.
// Unknown names are logged and ignored.
func (r *Registry) UpdateWeight(name string, weight float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.snapshot
	i, exists := old.index[name]
	if !exists {
		r.logger.WithField("adapter", name).Warn("Weight update for unknown adapter ignored")
		return
	}
	entries := make([]RegistryEntry, len(old.entries))
	copy(entries, old.entries)
	entries[i].Weight = weight
	entries[i].RegisteredAt = time.Now()

	r.snapshot = &Snapshot{entries: entries, index: old.index}
	r.logger.WithFields(logrus.Fields{
		"adapter": name,
		"weight":  weight,
	}).Info("Updated adapter weight")
}

// Snapshot returns the current immutable registry view.
func (r *Registry) Snapshot() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot
}
