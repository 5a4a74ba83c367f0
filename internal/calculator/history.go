package calculator

// Calculation is one successful evaluation. Equation is the trimmed input,
// Result the rendered rounded value.
type Calculation struct {
	Result   string `json:"result"`
	Equation string `json:"equation"`
}

// history keeps calculations most recent first.
type history struct {
	entries []Calculation
	limit   int
}

func (h *history) push(c Calculation) {
	h.entries = append(h.entries, Calculation{})
	copy(h.entries[1:], h.entries)
	h.entries[0] = c
	h.trim()
}

func (h *history) setLimit(n int) {
	h.limit = n
	h.trim()
}

func (h *history) trim() {
	if len(h.entries) > h.limit {
		clear(h.entries[h.limit:])
		h.entries = h.entries[:h.limit]
	}
}

func (h *history) clear() {
	h.entries = nil
}

func (h *history) snapshot() []Calculation {
	out := make([]Calculation, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *history) latest() (Calculation, bool) {
	if len(h.entries) == 0 {
		return Calculation{}, false
	}
	return h.entries[0], true
}
