package main

import "github.com/rskv-p/phfwd/cmd"

func main() {
	cmd.Execute()
}
