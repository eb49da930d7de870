// cmd/ccdbench/main.go
package main

import (
	ccdbench "github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/cli"
)

var executeCmd = ccdbench.Execute

// main delegates to the cobra root command defined in the ccdbench package.
func main() {
	executeCmd()
}
