package preview

import "image"

const (
	minWindowSide = 400
	maxWindowSide = 1280
)

// drainLatest empties frames without blocking. It returns the newest frame seen,
// or nil if none was waiting, and whether the channel is still open.
func drainLatest(frames <-chan *image.RGBA) (*image.RGBA, bool) {
	var latest *image.RGBA
	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				return latest, false
			}
			latest = frame
		default:
			return latest, true
		}
	}
}

// windowSize scales small renders up and large renders down by an integer factor
func windowSize(width, height int) (int, int) {
	longest := max(width, height)
	switch {
	case longest <= 0:
		return minWindowSide, minWindowSide
	case longest < minWindowSide:
		scale := minWindowSide / longest
		return width * scale, height * scale
	case longest > maxWindowSide:
		scale := (longest + maxWindowSide - 1) / maxWindowSide
		return width / scale, height / scale
	default:
		return width, height
	}
}
