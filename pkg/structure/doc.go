/*
Package structure holds the authoritative data structures and their read-only snapshots.

Every container (Tree, Heap, Graph, Linear) exposes Snapshot, a logically frozen
view that generators read while producing a trace. Containers are only mutated by
the committer, after playback, so a snapshot taken before an operation keeps
showing the "before" picture for as long as the trace is on screen.

Trees are stored in an arena of nodes addressed by stable NodeIDs. A TreeSnapshot
shares the arena with the Tree until the next mutation (copy-on-write), and
mutations are expressed as a TreeDiff built on a TreeEdit overlay.
*/
package structure
