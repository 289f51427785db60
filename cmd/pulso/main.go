package main

import "github.com/pulso-app/pulso/internal/cli"

func main() {
	cli.Execute()
}
