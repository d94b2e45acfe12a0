package main

import "github.com/detsimlab/dsim/dsim/cmd"

func main() {
	cmd.Execute()
}
