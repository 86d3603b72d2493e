package main

import "github.com/emiliopalmerini/mhabit/internal/cli"

func main() {
	cli.Execute()
}
