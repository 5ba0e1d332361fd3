/*
Safetx is a toolbox for nested safe transactions. It computes transaction
hashes, manages member keys, signs and verifies hashes and loads a genesis
into a fresh environment.

Every flag can also be set with an environment variable prefixed with
SAFETX_, for example SAFETX_CHAIN_ID.
*/
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
