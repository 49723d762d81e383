// Command worley samples and inspects cellular noise.
//
// Usage:
//
//	worley sample --config run.yaml --output out/ --log-stats
//	worley eval 0.5 0.5 --reference --all
//	worley table --seed 24301 --check
package main

import (
	"os"
)

func main() {
	cmd := newWorleyCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
