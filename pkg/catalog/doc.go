/*
Package catalog loads, validates, and lints interview scenarios.

Scenarios are YAML or JSON documents. The built-in set (behavioral, technical,
culture, situational) is embedded in the binary; additional scenarios can be
loaded from a directory. Every scenario is validated once at load time so the
engine can trust that the start node exists and every reply target resolves.
*/
package catalog
