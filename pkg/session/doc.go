/*
Package session owns the authoritative structures of every session.

A session holds one Workspace (one structure per algorithm family) and at most
one unresolved trace. Begin validates a request, snapshots the structure and
generates the trace; Resolve commits it once the trace has been played or
skipped; Abort discards it. Access to a session is serialised by a
reference-counted local lock and, optionally, a distributed lock, so no two
traces are generated concurrently for one workspace.
*/
package session
