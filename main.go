package main

import "f1fastestlaps/cmd"

func main() {
	cmd.Execute()
}
