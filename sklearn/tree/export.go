package tree

import (
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"gopkg.in/yaml.v3"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
)

// WriteYAML encodes t as YAML.
func (t *Tree) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return tfErrors.Wrap(err, "encode tree")
	}
	return enc.Close()
}

// ReadYAML decodes a tree written by WriteYAML.
func ReadYAML(r io.Reader) (*Tree, error) {
	var t Tree
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, tfErrors.Wrap(err, "decode tree")
	}
	if t.Root == nil {
		return nil, tfErrors.NewModelError("ReadYAML", "tree has no root", tfErrors.ErrCorruptEncoding)
	}
	return &t, nil
}

// Graph builds a graphviz graph of t. Callers close both return values.
func (t *Tree) Graph() (*graphviz.Graphviz, *cgraph.Graph, error) {
	gv := graphviz.New()
	graph, err := gv.Graph()
	if err != nil {
		_ = gv.Close()
		return nil, nil, tfErrors.Wrap(err, "create graph")
	}
	if t.Root != nil {
		if err := t.draw(graph, t.Root, nil); err != nil {
			_ = graph.Close()
			_ = gv.Close()
			return nil, nil, err
		}
	}
	return gv, graph, nil
}

func (t *Tree) draw(graph *cgraph.Graph, n *Node, parent *cgraph.Node) error {
	current, err := graph.CreateNode(fmt.Sprint(n.ID))
	if err != nil {
		return tfErrors.Wrapf(err, "create node %d", n.ID)
	}
	if parent != nil {
		e, err := graph.CreateEdge("", parent, current)
		if err != nil {
			return tfErrors.Wrapf(err, "create edge to %d", n.ID)
		}
		e.SetLabel(n.Condition)
	}
	if n.IsLeaf() {
		current.SetLabel(n.describe(t.Regression))
		current.SetShape(cgraph.BoxShape)
		return nil
	}
	current.SetLabel(fmt.Sprintf("%s\ngain=%.4g", n.Split.Column, n.Split.Gain))
	for _, c := range n.Children {
		if err := t.draw(graph, c, current); err != nil {
			return err
		}
	}
	return nil
}

// Render writes t in the given graphviz format (graphviz.SVG, graphviz.PNG,
// graphviz.XDOT, ...).
func (t *Tree) Render(w io.Writer, format graphviz.Format) error {
	gv, graph, err := t.Graph()
	if err != nil {
		return err
	}
	defer func() {
		_ = graph.Close()
		_ = gv.Close()
	}()
	return gv.Render(graph, format, w)
}

// RenderFile writes t to path in the given graphviz format.
func (t *Tree) RenderFile(path string, format graphviz.Format) error {
	gv, graph, err := t.Graph()
	if err != nil {
		return err
	}
	defer func() {
		_ = graph.Close()
		_ = gv.Close()
	}()
	return gv.RenderFilename(graph, format, path)
}
