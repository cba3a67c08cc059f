package main

import (
	cmd "github.com/sevphysionet/sectioner/cmd/sectioner"
)

func main() {
	cmd.Execute()
}
