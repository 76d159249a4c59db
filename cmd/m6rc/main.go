// Command m6rc compiles Metaphor documents into prompts for large language
// models.
package main

import (
	"os"

	"github.com/teranos/m6rc/cmd/m6rc/commands"
)

func main() {
	os.Exit(commands.Execute(os.Args[1:]))
}
