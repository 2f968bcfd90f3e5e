package main

import (
	"atlasref/cmd/atlasref/commands"
	"atlasref/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
