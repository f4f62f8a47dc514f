package main

import "layout-sync/cmd"

func main() {
	cmd.Execute()
}
