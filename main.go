package main

import "github.com/marcus/paramsync/cmd"

// Version is set at build time via -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	cmd.SetVersion(Version)
	cmd.Execute()
}
