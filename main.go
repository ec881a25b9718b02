package main

import "github.com/mouse-blink/ngstyle/cmd"

func main() {
	cmd.Execute()
}
