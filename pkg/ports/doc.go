/*
Package ports defines the driven ports (interfaces) for the stepwise engine.

These interfaces decouple the core logic from the algorithm families and from
external implementations such as storage backends and lock services.

# Key Interfaces

  - Family: a trace generator paired with the committer that applies the same operation.
  - Verifier: optional consistency check run after a commit.
  - WorkspaceStore: persists the authoritative structures of a session between runs.
  - DistributedLocker: provides distributed locking for concurrent session access.
*/
package ports
