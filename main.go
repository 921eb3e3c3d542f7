package main

import "github.com/netbeacon/azvnet/cmd"

func main() {
	cmd.Execute()
}
