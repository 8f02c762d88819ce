package viewport

import "math"

// largeFileLineThreshold is the line count above which the scrollbar gives
// up on a proportional thumb and switches to a fixed-size one positioned
// by byte offset instead of line ratio.
const largeFileLineThreshold = 200_000

// Thumb describes a scrollbar's thumb geometry in track cells.
type Thumb struct {
	Size  int
	Start int
}

// ThumbGeometry computes the scrollbar thumb for a track of trackHeight
// cells. For documents at or below largeFileLineThreshold lines, the
// thumb's size and position track the ratio of visible to total lines.
// Above the threshold, line-ratio math stops being meaningful (line counts
// that large are usually still loading), so the thumb is a fixed single
// cell positioned by byte offset instead.
func ThumbGeometry(visibleLines, totalLines int64, topLine int64, trackHeight int, topByte, totalBytes int64) Thumb {
	if trackHeight < 1 {
		trackHeight = 1
	}
	if totalLines > largeFileLineThreshold {
		return Thumb{Size: 1, Start: largeByteThumbStart(topByte, totalBytes, trackHeight)}
	}
	if totalLines <= 0 || visibleLines >= totalLines {
		return Thumb{Size: trackHeight, Start: 0}
	}

	size := int(math.Ceil(float64(visibleLines) / float64(totalLines) * float64(trackHeight)))
	maxSize := int(math.Floor(0.8 * float64(trackHeight)))
	if maxSize < 1 {
		maxSize = 1
	}
	if size < 1 {
		size = 1
	}
	if size > maxSize {
		size = maxSize
	}

	maxScrollLine := totalLines - visibleLines
	if maxScrollLine <= 0 {
		return Thumb{Size: size, Start: 0}
	}
	scrollRatio := float64(topLine) / float64(maxScrollLine)
	start := int(scrollRatio * float64(trackHeight-size))
	if start < 0 {
		start = 0
	}
	if start > trackHeight-size {
		start = trackHeight - size
	}
	return Thumb{Size: size, Start: start}
}

func largeByteThumbStart(topByte, totalBytes int64, trackHeight int) int {
	if totalBytes <= 0 {
		return 0
	}
	start := int(float64(topByte) / float64(totalBytes) * float64(trackHeight-1))
	if start < 0 {
		start = 0
	}
	if start > trackHeight-1 {
		start = trackHeight - 1
	}
	return start
}
