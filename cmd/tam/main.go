// Command tam validates programs written in the tam teaching language.
package main

import (
	"os"

	"github.com/tam-lang/tam/cmd/tam/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
