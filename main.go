package main

import "complexify/cmd"

func main() {
	cmd.Execute()
}
