package main

import "github.com/constituency-office/citizen-portal/cmd"

func main() {
	cmd.Execute()
}
