/*
Package observability provides Prometheus instrumentation for the Espalier engine.

It exposes counters for machine registrations, queries and membership verdicts,
latency histograms, and an HTTP middleware that records per-route traffic for
the REST adapter.
*/
package observability
