package main

import "pascal/cmd"

func main() {
	cmd.Execute()
}
