package tree_test

import (
	"github.com/ezoic/treeforge/pkg/log"
	"github.com/ezoic/treeforge/sklearn/tree/data"
	"github.com/ezoic/treeforge/sklearn/tree/split"
)

func newEngine(td *data.TreeData) (*split.Engine, error) {
	return split.NewEngine(td.Config(), split.WithLogger(log.Nop()))
}
