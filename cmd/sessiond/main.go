package main

import "github.com/aussiebroadwan/sessiond/cmd/sessiond/cmd"

func main() {
	cmd.Execute()
}
