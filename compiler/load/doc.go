// Package load reads schema definitions from YAML files and records the
// snapshots used to skip regenerating unchanged schemas.
package load
