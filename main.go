package main

import "github.com/wavewatch/wavewatch/cmd"

func main() {
	cmd.Execute()
}
