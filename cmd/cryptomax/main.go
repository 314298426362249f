package main

import "cryptomax/internal/cli"

func main() {
	cli.Execute()
}
