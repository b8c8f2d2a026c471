package main

import (
	"github.com/remvze/gitscovery/cmd"
)

func main() {
	cmd.Execute()
}
