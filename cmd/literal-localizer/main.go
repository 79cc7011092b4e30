package main

import "literal-localizer/internal/cli"

func main() {
	cli.Execute()
}
