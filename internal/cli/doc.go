// Package cli implements the fsbridge command line: serve runs the bridge,
// call invokes one command against a running bridge, version prints build
// information.
package cli
