package main

import "github.com/CollectivaT-dev/ladinobot/cmd"

func main() {
	cmd.Execute()
}
