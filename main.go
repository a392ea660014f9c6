package main

import "github.com/redbadger/autodeploy/cmd"

func main() {
	cmd.Execute()
}
