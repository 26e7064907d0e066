package batch

import "encoding/json"

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of processing one item in a batch operation.
type Result struct {
	index  int
	id     string
	status ItemStatus
	err    error
}

// NewOK creates a successful batch result for the item at index.
func NewOK(index int, id string) Result {
	return Result{index: index, id: id, status: StatusOK}
}

// NewError creates a failed batch result for the item at index.
func NewError(index int, err error) Result {
	return Result{index: index, status: StatusError, err: err}
}

// Index returns the position of the item in the request.
func (r Result) Index() int { return r.index }

// ID returns the stored item identifier (empty on failure).
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// MarshalJSON renders the result as {index, _id, status, error}.
func (r Result) MarshalJSON() ([]byte, error) {
	out := struct {
		Index  int        `json:"index"`
		ID     string     `json:"_id,omitempty"`
		Status ItemStatus `json:"status"`
		Error  string     `json:"error,omitempty"`
	}{Index: r.index, ID: r.id, Status: r.status}
	if r.err != nil {
		out.Error = r.err.Error()
	}
	return json.Marshal(out)
}

// Summary counts successful and failed items.
func Summary(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.status == StatusOK {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
