/*
Package stepwise is a step-by-step algorithm visualization engine: it records what an
algorithm does to a data structure as an immutable trace of steps, lets a host play
that trace forwards and backwards, and only then commits the change to the real
structure.

# Concept

An operation (insert 7 into an AVL tree, BFS from vertex A, quick sort) is first
validated, then run against a read-only snapshot of the session's structure. The
result is a domain.Trace: an ordered list of steps, each with a description, the
highlighted elements, a variable table and, for array families, the array as it
looked at that point. The last step is terminal and carries the outcome.

The trace is pending until the host resolves it. Resolving replays the same algorithm
on the authoritative structure and checks the result against the terminal step, so
what the user saw is exactly what was stored. Aborting leaves the structure untouched.

# Families

Built-in families are registered under the tags bst, avl, heap, graph, sorting, stack
and queue. Custom families implement ports.Family and are installed with WithRegistry.

# Usage

	eng, err := stepwise.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	tr, err := eng.Begin(ctx, "demo", domain.Request{Family: "avl", Kind: domain.KindInsert, Operand: "7"})
	if err != nil {
		log.Fatal(err)
	}

	player := eng.NewPlayer("demo")
	player.Load(tr)
	for !player.Done() {
		v := player.StepForward()
		fmt.Println(v.Step.Description)
	}

	if _, err := eng.Resolve(ctx, "demo"); err != nil {
		log.Fatal(err)
	}
*/
package stepwise
