package main

import "github.com/smkhize/claims-management/cmd"

func main() {
	cmd.Execute()
}
