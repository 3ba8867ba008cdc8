package main

import "github.com/fireledger/fireledger/cmd"

func main() {
	cmd.Execute()
}
