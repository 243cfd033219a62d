package main

import "github.com/dmitrymomot/mediator/internal/cli"

func main() {
	cli.Execute()
}
