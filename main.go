package main

import "github.com/tdnguyendev/mbwatch/cmd"

func main() {
	cmd.Execute()
}
