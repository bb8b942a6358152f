// Package client implements the interactive client application runtime.
//
// It wires the collection gateway, live update channel, snapshot cache,
// client services and the terminal UI into a single process lifecycle.
package client
