package main

import "github.com/kiesman99/staticmap/cmd"

func main() {
	cmd.Execute()
}
