package main

import "github.com/VictorDevvs/factory-api/internal/interfaces/cli"

func main() {
	cli.Execute()
}
