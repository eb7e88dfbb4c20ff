package tasktable

import "math"

const (
	trackSymbol = "║"
	thumbSymbol = "█"
)

// scrollbar returns one symbol per track row. The viewport is the track
// itself, so the thumb shrinks as the content grows.
func scrollbar(track int, s ScrollState) []string {
	if track <= 0 {
		return nil
	}
	start, length := thumb(track, s)
	bar := make([]string, track)
	for i := range bar {
		if i >= start && i < start+length {
			bar[i] = thumbSymbol
		} else {
			bar[i] = trackSymbol
		}
	}
	return bar
}

// thumb computes where the thumb starts and how many rows it covers.
func thumb(track int, s ScrollState) (start, length int) {
	if track <= 0 || s.ContentLength <= 0 {
		return 0, 0
	}
	trackLen := float64(track)
	viewport := trackLen
	maxPos := float64(s.ContentLength - 1)
	pos := math.Max(0, math.Min(float64(s.Position), maxPos))
	maxViewportPos := maxPos + viewport

	first := math.Round(pos * trackLen / maxViewportPos)
	last := math.Round((pos + viewport) * trackLen / maxViewportPos)
	first = math.Max(0, math.Min(first, trackLen-1))
	last = math.Max(0, math.Min(last, trackLen))

	start = int(first)
	length = max(int(last)-start, 1)
	return start, length
}
