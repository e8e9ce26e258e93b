// Power-profile chart rendering
package panel

import (
	"fmt"
	"strings"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
	colorGray   = "\x1b[90m"
	colorWhite  = "\x1b[97m"
)

// Normalize maps a power profile into [0,1] against its own maximum.
// When the maximum is not positive every position normalizes to 0; an empty
// profile yields nil.
func Normalize(profile []float64) []float64 {
	if len(profile) == 0 {
		return nil
	}
	max := profile[0]
	for _, v := range profile[1:] {
		if v > max {
			max = v
		}
	}
	out := make([]float64, len(profile))
	if max <= 0 {
		return out
	}
	for i, v := range profile {
		out[i] = v / max
	}
	return out
}

// rowFor maps a normalized value to a grid row, row 0 being the top.
// Values are clamped so the polyline stays inside the plot.
func rowFor(v float64, height int) int {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	row := (height - 1) - int(v*float64(height-1)+0.5)
	if row < 0 {
		row = 0
	} else if row > height-1 {
		row = height - 1
	}
	return row
}

// RenderChart draws the profile as a connected polyline across the full
// width, evenly spaced by index, with the detection count overlaid in the
// top-right corner. An empty profile renders a placeholder message instead.
func RenderChart(profile []float64, detections int, width, height int) string {
	if width < 4 {
		width = 4
	}
	if height < 3 {
		height = 3
	}
	label := fmt.Sprintf("Detections: %d", detections)

	norm := Normalize(profile)
	if len(norm) == 0 {
		lines := make([]string, height)
		for i := range lines {
			lines[i] = strings.Repeat(" ", width)
		}
		msg := "Awaiting data..."
		if len(msg) > width {
			msg = msg[:width]
		}
		pad := (width - len(msg)) / 2
		mid := height / 2
		lines[mid] = strings.Repeat(" ", pad) + colorGray + msg + colorReset +
			strings.Repeat(" ", width-pad-len(msg))
		lines[0] = overlayLabel(nil, label, width)
		return strings.Join(lines, "\n")
	}

	grid := make([][]bool, height)
	for i := range grid {
		grid[i] = make([]bool, width)
	}

	prevX, prevY := 0, rowFor(norm[0], height)
	for i, v := range norm {
		x := 0
		if len(norm) > 1 {
			x = i * (width - 1) / (len(norm) - 1)
		}
		y := rowFor(v, height)
		if i == 0 {
			grid[y][x] = true
		} else {
			plotSegment(grid, prevX, prevY, x, y)
		}
		prevX, prevY = x, y
	}

	lines := make([]string, height)
	for y := 0; y < height; y++ {
		var b strings.Builder
		for x := 0; x < width; x++ {
			if grid[y][x] {
				b.WriteString(colorCyan + "•" + colorReset)
			} else {
				b.WriteByte(' ')
			}
		}
		lines[y] = b.String()
	}
	lines[0] = overlayLabel(grid[0], label, width)
	return strings.Join(lines, "\n")
}

// plotSegment connects two grid points so consecutive samples form a line.
func plotSegment(grid [][]bool, x0, y0, x1, y1 int) {
	dx, dy := x1-x0, y1-y0
	steps := dx
	if steps < 0 {
		steps = -steps
	}
	dyAbs := dy
	if dyAbs < 0 {
		dyAbs = -dyAbs
	}
	if dyAbs > steps {
		steps = dyAbs
	}
	if steps == 0 {
		grid[y1][x1] = true
		return
	}
	for s := 1; s <= steps; s++ {
		x := x0 + dx*s/steps
		y := y0 + dy*s/steps
		grid[y][x] = true
	}
}

// overlayLabel rebuilds the top row with the label right-aligned so it stays
// a contiguous string in the output.
func overlayLabel(row []bool, label string, width int) string {
	if len(label) >= width {
		label = label[:width]
	}
	keep := width - len(label)
	var b strings.Builder
	for x := 0; x < keep; x++ {
		if row != nil && row[x] {
			b.WriteString(colorCyan + "•" + colorReset)
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteString(colorWhite + label + colorReset)
	return b.String()
}
