package main

import "herovault/cmd/vaultctl/root"

func main() {
	root.Execute()
}
