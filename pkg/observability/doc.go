/*
Package observability turns engine lifecycle hooks into structured logs and
Prometheus metrics.

Hooks compose: Merge fans one event out to several domain.LifecycleHooks values, so a
host can log, count and stream the same trace without the engine knowing about any
of them.
*/
package observability
