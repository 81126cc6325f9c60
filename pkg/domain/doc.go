/*
Package domain contains the core models of the stepwise engine.

It defines the records exchanged between the generators, the playback controller
and the committer. This package is kept pure and free of I/O, timers or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Step: one recorded moment of an algorithm run (description, highlight, variables, message).
  - Trace: the ordered, deterministic list of Steps produced for one operation.
  - Request / Operation: the raw operation request and its validated form.
  - PlaybackState: the cursor over a Trace as seen by renderers.
*/
package domain
