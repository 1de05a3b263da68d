package main

import "github.com/V4T54L/integrator/cmd/integrator/cmd"

func main() {
	cmd.Execute()
}
