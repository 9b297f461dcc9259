package main

import "github.com/KostasZigo/govcs/cmd"

func main() {
	cmd.Execute()
}
