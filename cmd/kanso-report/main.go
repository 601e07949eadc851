package main

import "github.com/comitanigiacomo/kanso-report/internal/cli"

func main() {
	cli.Execute()
}
