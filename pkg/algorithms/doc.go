/*
Package algorithms implements the built-in algorithm families.

Each family pairs a trace generator with a committer. Both run the same
algorithm body: the generator passes a tracer that records Steps while working
on a TreeEdit overlay or a copied array, the committer passes a nil tracer and
works on the authoritative structure. Tracers are nil-safe, so the algorithm
code does not branch on whether it is being recorded.

Families:

  - bst, avl: insert and search on an arena tree (avl adds height updates and rotations).
  - heap: insert (sift-up) and extract (sift-down) on a min or max heap.
  - graph: BFS/DFS traversal from a start vertex and edge insertion.
  - sorting: bubble and quick sort, plus append.
  - stack, queue: push/pop, enqueue/dequeue and linear search.
*/
package algorithms
