package stepwise_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
)

// ExampleEngine_Apply inserts an ascending run into an AVL tree and shows the
// rotation it triggers.
func ExampleEngine_Apply() {
	eng, err := stepwise.New()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	for _, v := range []string{"1", "2", "3"} {
		tr, res, err := eng.Apply(ctx, "example", domain.Request{Family: "avl", Kind: domain.KindInsert, Operand: v})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(tr.Operation, res.Outcome)
	}

	snap, err := eng.Snapshot(ctx, "example", "avl")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("preorder:", domain.FormatValues(snap.(structure.TreeSnapshot).PreOrder()))

	// Output:
	// avl insert 1 inserted
	// avl insert 2 inserted
	// avl insert 3 inserted
	// preorder: [2 1 3]
}
