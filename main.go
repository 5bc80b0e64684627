package main

import "github.com/StrungPattern-coder/SecureSight/cmd"

func main() {
	cmd.Execute()
}
