package main

import "github.com/rabbikazmi/HackingDelhi/cli"

func main() {
	cli.Execute()
}
