package model

// historySize is how many recent hashes are kept for cycle detection.
const historySize = 5

// History remembers recent grid hashes to spot static or short-period states.
type History struct {
	hashes []string
}

// Update adds hash to the history and drops the oldest entries.
func (h *History) Update(hash string) {
	h.hashes = append(h.hashes, hash)

	if len(h.hashes) > historySize {
		h.hashes = h.hashes[1:]
	}
}

// IsStagnant reports whether hash repeats one of the last three recorded
// states, i.e. the grid is static or cycling with period 2 or 3.
func (h *History) IsStagnant(hash string) bool {
	if len(h.hashes) < 3 {
		return false
	}
	for back := 1; back <= 3; back++ {
		if h.hashes[len(h.hashes)-back] == hash {
			return true
		}
	}
	return false
}

// Reset forgets all recorded hashes.
func (h *History) Reset() { h.hashes = nil }
