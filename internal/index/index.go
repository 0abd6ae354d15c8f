package index

// PostIndex defines the search-index operations. Consumers should depend
// on this interface rather than the concrete *DB type to facilitate
// testing with mocks.
type PostIndex interface {
	UpsertPost(p PostRow, body string, tags []int) error
	DeletePost(id int) error
	AllChecksums() (map[int]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies PostIndex at compile time.
var _ PostIndex = (*DB)(nil)
