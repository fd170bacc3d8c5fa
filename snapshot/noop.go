package snapshot

// NoopStore discards every Save and never finds anything on Load,
// mirroring the teacher's no-op storage backend — useful for tests and
// for hosts that don't want persistence wired up yet.
type NoopStore struct{}

func (NoopStore) Save(id string, snap Snapshot) error         { return nil }
func (NoopStore) Load(id string) (Snapshot, bool, error)      { return Snapshot{}, false, nil }
func (NoopStore) Delete(id string) error                      { return nil }

var _ Store = NoopStore{}
