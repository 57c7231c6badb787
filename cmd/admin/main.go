package main

import "credvault/cmd/admin/cmd"

func main() {
	cmd.Execute()
}
