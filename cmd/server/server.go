// Package main is the entry point of the CampusHub server.
// It sets up and starts the server by calling initialization functions from the internal package.
package main

import (
	"campushub-server/internal"
)

func main() {
	internal.Init()
}
