package main

import "mmpm/internal/cli"

func main() {
	cli.Execute()
}
