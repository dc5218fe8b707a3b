package main

import "github.com/guimove/greendc/cmd"

func main() {
	cmd.Execute()
}
