package main

import "github.com/mvp-joe/tsinline/internal/cli"

func main() {
	cli.Execute()
}
