package main

import "photo-hub/cmd"

func main() {
	cmd.Execute()
}
