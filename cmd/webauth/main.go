package main

import "github.com/nfrund/webauth/cmd/webauth/cmd"

func main() {
	cmd.Execute()
}
