package weavetest

import "github.com/iov-one/weave-paychan"

// Handler is a weave.Handler returning configured results. Calls are
// counted so that tests can ensure a decorator did or did not pass a
// transaction through.
type Handler struct {
	CheckResult weave.CheckResult
	CheckErr    error

	DeliverResult weave.DeliverResult
	DeliverErr    error

	checks   int
	delivers int
}

var _ weave.Handler = (*Handler)(nil)

// Check returns a copy of CheckResult, or CheckErr if set.
func (h *Handler) Check(weave.Context, weave.KVStore, weave.Tx) (*weave.CheckResult, error) {
	h.checks++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

// Deliver returns a copy of DeliverResult, or DeliverErr if set. The tags
// are copied as well, so a decorator appending to them does not change the
// configured result.
func (h *Handler) Deliver(weave.Context, weave.KVStore, weave.Tx) (*weave.DeliverResult, error) {
	h.delivers++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	res.Tags = append(res.Tags[:0:0], h.DeliverResult.Tags...)
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checks
}

func (h *Handler) DeliverCallCount() int {
	return h.delivers
}

func (h *Handler) CallCount() int {
	return h.checks + h.delivers
}
