// Command stellate uploads schemas to Stellate and drains queued telemetry.
//
//	stellate schema sync --file schema.json
//	stellate queue drain --redis-addr localhost:6379 --metrics-addr :9090
//	stellate version
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
