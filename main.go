package main

import "github.com/andriiCH4/PINN/cmd"

func main() {
	cmd.Execute()
}
