package main

import "github.com/knapcmp/knapcmp/cmd"

func main() {
	cmd.Execute()
}
