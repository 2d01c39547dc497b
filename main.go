package main

import (
	"fmt"

	"lendpool/cmd"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd.Execute(fmt.Sprintf("%s-%s", version, commit))
}
