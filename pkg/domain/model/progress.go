package model

// Progress is a snapshot of a running media transfer
type Progress struct {
	Written int64 // Bytes written so far
	Total   int64 // Content-Length, or <= 0 when unknown
}

// Known reports whether the total size was announced by the server
func (p Progress) Known() bool {
	return p.Total > 0
}

// Percent returns completion in percent, or -1 when the total is unknown
func (p Progress) Percent() float64 {
	if !p.Known() {
		return -1
	}
	return float64(p.Written) / float64(p.Total) * 100
}
