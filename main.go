package main

import "github.com/rskv-p/searchlab/cmd"

func main() {
	cmd.Execute()
}
