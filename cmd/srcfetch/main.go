package main

import "github.com/srcfetch/srcfetch/pkg/cmd"

func main() {
	cmd.Execute()
}
