/*
Package playback implements the cursor over a generated trace.

The Controller moves an index across the steps of one trace. Stepping is pure
cursor movement: every View is derived from the step at the current index, so
reaching an index by any path yields the same View.

Autoplay owns exactly one timer. Every transition that stops autoplay bumps a
generation counter, and a timer callback carrying an older generation does
nothing, so no advance can land after Pause, Cancel or Load returns.
*/
package playback
