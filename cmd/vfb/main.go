/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/vfbkit/cmd/vfb/cmd"

func main() {
	cmd.Execute()
}
