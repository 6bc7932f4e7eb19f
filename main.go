/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "pearpanel/cmd"

func main() {
	cmd.Execute()
}
