package main

import "github.com/coretide/codearmor/cmd"

func main() {
	cmd.Execute()
}
