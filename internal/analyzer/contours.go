package analyzer

// Foreground connectivity is 8-way and background connectivity 4-way, the
// same pairing border-following contour tracers use. With that pairing a
// background pixel not 4-connected to the image frame lies in a hole of some
// component, and a component is outer exactly when it touches the frame or
// the outside background.

var (
	neighbors4 = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	neighbors8 = [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// findContours returns bounding boxes of outer foreground components in raster
// order of each component's first pixel. Components nested inside holes are skipped.
func findContours(m *mask) []Region {
	if m.w == 0 || m.h == 0 {
		return []Region{}
	}

	outside := markOutside(m)
	visited := make([]bool, m.w*m.h)

	regions := []Region{}

	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			i := y*m.w + x
			if m.fg[i] && !visited[i] {
				// Found a new component, flood fill to find bounds
				region, outer := floodFill(m, visited, outside, x, y)
				if outer {
					regions = append(regions, region)
				}
			}
		}
	}

	return regions
}

// markOutside flags background pixels 4-connected to the image frame
func markOutside(m *mask) []bool {
	outside := make([]bool, m.w*m.h)
	stack := []int{}

	seed := func(x, y int) {
		i := y*m.w + x
		if !m.fg[i] && !outside[i] {
			outside[i] = true
			stack = append(stack, i)
		}
	}

	for x := 0; x < m.w; x++ {
		seed(x, 0)
		seed(x, m.h-1)
	}
	for y := 0; y < m.h; y++ {
		seed(0, y)
		seed(m.w-1, y)
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%m.w, i/m.w

		for _, d := range neighbors4 {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || nx >= m.w || ny < 0 || ny >= m.h {
				continue
			}
			seed(nx, ny)
		}
	}

	return outside
}

// floodFill labels one 8-connected component and returns its bounding box and
// whether it borders the frame or the outside background.
func floodFill(m *mask, visited, outside []bool, startX, startY int) (Region, bool) {
	minX, minY := startX, startY
	maxX, maxY := startX, startY
	outer := false

	visited[startY*m.w+startX] = true
	stack := []int{startY*m.w + startX}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%m.w, i/m.w

		// Update bounds
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}

		if x == 0 || y == 0 || x == m.w-1 || y == m.h-1 {
			outer = true
		}

		for _, d := range neighbors8 {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || nx >= m.w || ny < 0 || ny >= m.h {
				continue
			}
			n := ny*m.w + nx
			if !m.fg[n] {
				if outside[n] && (d[0] == 0 || d[1] == 0) {
					outer = true
				}
				continue
			}
			if !visited[n] {
				visited[n] = true
				stack = append(stack, n)
			}
		}
	}

	return Region{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}, outer
}
