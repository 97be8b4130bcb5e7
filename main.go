package main

import "github.com/khanhnv2901/bigip-recon/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
