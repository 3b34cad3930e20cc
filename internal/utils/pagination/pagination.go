package pagination

// DefaultPageSize is applied when the caller does not ask for a size.
const DefaultPageSize = 20

// MaxPageSize caps how many rows a single page may return.
const MaxPageSize = 100

// Page is a normalized page request. Pages are 1-based.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps raw page parameters into a valid Page.
func Normalize(number, size int) Page {
	if number <= 0 {
		number = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the row offset for SQL OFFSET clauses.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
