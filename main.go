package main

import "github.com/Johannes-Berggren/mkgitbranch/cmd"

func main() {
	cmd.Execute()
}
