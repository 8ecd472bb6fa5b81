package main

import "github.com/naka-gawa/repo-lens/cmd"

func main() {
	cmd.Execute()
}
