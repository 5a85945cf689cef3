// Package scan discovers git repositories below one or more roots and reports
// those caught mid-operation, followed by uncommitted changes in clean ones.
//
// CommandBuilder wires the cobra command; Service drives the walk, the state
// partition and the report programmatically.
package scan
