package main

import "github.com/dsyme/weave/cmd"

func main() {
	cmd.Execute()
}
