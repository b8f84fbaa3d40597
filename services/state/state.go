package state

// Record is the last alert-worthy offer's identity, persisted between runs
type Record struct {
	Title string
	Price int
}

// Zero reports whether the record has never been set
func (r Record) Zero() bool {
	return r.Title == "" && r.Price == 0
}

// Store is a durable single-slot store of the last-seen record.
// Get returns a zero Record when no state has ever been written.
type Store interface {
	// Get retrieves the last-seen record
	Get() (Record, error)

	// Set overwrites the record entirely (no merge)
	Set(Record) error

	// Close releases any underlying resources
	Close() error
}
