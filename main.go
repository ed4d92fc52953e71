package main

import "github.com/hleutermann/barky/cmd"

// execute is a seam for tests.
var execute = cmd.Execute

func main() {
	execute()
}
