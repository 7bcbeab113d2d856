package tree_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/treeforge/sklearn/tree"
)

func ExampleDecisionTreeClassifier() {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	clf := tree.NewDecisionTreeClassifier()
	if err := clf.Fit(X, y); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(clf.Tree())

	// Output:
	// 0 n=6 [3 3]
	//   x0 <= 3.5: 0 n=3 [3 0]
	//   x0 > 3.5: 1 n=3 [0 3]
}
