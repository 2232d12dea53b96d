package main

import "github.com/docwarp/docwarp/cmd/docwarp/cmd"

func main() {
	cmd.Execute()
}
