package main

import "github.com/naka-gawa/github-explorer/cmd"

func main() {
	cmd.Execute()
}
