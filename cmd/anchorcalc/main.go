// Command anchorcalc evaluates and sizes offshore anchors from YAML design
// files.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
