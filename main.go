package main

import "github.com/poliscan/poliscan/cmd"

func main() {
	cmd.Execute()
}
