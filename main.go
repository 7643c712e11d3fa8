package main

import "github.com/reliclabs/relic/cmd"

func main() {
	cmd.Execute()
}
