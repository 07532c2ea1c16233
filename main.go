package main

import "factorix/cmd"

func main() {
	cmd.Execute()
}
