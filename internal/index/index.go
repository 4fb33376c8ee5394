package index

// WordIndex defines the interface for word-index operations. Consumers
// should depend on this interface rather than the concrete *DB type to
// facilitate testing with mocks.
type WordIndex interface {
	UpsertWord(w WordRow) error
	DeleteWord(path string) error
	GetWord(path string) (*WordRow, error)
	FindByHeadword(headword string) ([]WordRow, error)
	ListWords(limit, offset int, theme string) ([]WordRow, int, error)
	Search(query string, limit int) ([]WordRow, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies WordIndex at compile time.
var _ WordIndex = (*DB)(nil)
