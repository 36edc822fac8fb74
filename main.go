package main

import "github.com/okvm/go-chip8/cmd"

func main() {
	cmd.Execute()
}
