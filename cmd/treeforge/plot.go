package main

import (
	"sort"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/sklearn/tree/data"
)

// gainProfile records every scored numeric boundary, per column.
type gainProfile struct {
	mu     sync.Mutex
	points map[string]plotter.XYs
	order  []string
}

func newGainProfile() *gainProfile {
	return &gainProfile{points: map[string]plotter.XYs{}}
}

func (g *gainProfile) ObserveBoundary(column data.Column, threshold, score float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	name := column.Name()
	if _, ok := g.points[name]; !ok {
		g.order = append(g.order, name)
	}
	g.points[name] = append(g.points[name], plotter.XY{X: threshold, Y: score})
}

// Len is the number of recorded boundaries.
func (g *gainProfile) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, pts := range g.points {
		n += len(pts)
	}
	return n
}

// Save draws one line per column and writes the image to path. The format
// follows the file extension (.png, .svg, .pdf, ...).
func (g *gainProfile) Save(path string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := plot.New()
	p.Title.Text = "Boundary scores at the root"
	p.X.Label.Text = "threshold"
	p.Y.Label.Text = "score"

	names := append([]string(nil), g.order...)
	sort.Strings(names)
	for i, name := range names {
		pts := g.points[name]
		sort.Slice(pts, func(a, b int) bool { return pts[a].X < pts[b].X })
		line, err := plotter.NewLine(pts)
		if err != nil {
			return tfErrors.Wrapf(err, "plot column %s", name)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(name, line)
	}
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return tfErrors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
