package main

import "github.com/RichardoC/padchat/cmd"

func main() {
	cmd.Execute()
}
