package main

import "github.com/StevenJWChen/layout-automation/cmd/layoutctl/cmd"

func main() {
	cmd.Execute()
}
