/*
Package observability turns engine lifecycle hooks into logs and Prometheus metrics.

Metrics are registered on a caller-supplied registry so that several engines
(or tests) never collide on the global default registry.
*/
package observability
