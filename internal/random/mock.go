package random

// Mock is a queue-backed Random for deterministic tests.
type Mock struct {
	IntnResults   []int
	intnIndex     int
	StringResults []string
	stringIndex   int
}

var _ Random = (*Mock)(nil)

// NewMock creates an empty Mock.
func NewMock() *Mock {
	return &Mock{}
}

// Intn returns the next queued result, or 0 if none remain.
func (r *Mock) Intn(n int) int {
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// String returns the next queued result, or "" if none remain.
func (r *Mock) String(length int, alphabet string) string {
	if r.stringIndex >= len(r.StringResults) {
		return ""
	}
	result := r.StringResults[r.stringIndex]
	r.stringIndex++
	return result
}

// QueueIntn adds values to the Intn result queue.
func (r *Mock) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}

// QueueString adds values to the String result queue.
func (r *Mock) QueueString(values ...string) {
	r.StringResults = append(r.StringResults, values...)
}
