package main

import "cnnvideo/cmd"

func main() {
	cmd.Execute()
}
