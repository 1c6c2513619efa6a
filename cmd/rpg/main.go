package main

import "github.com/reedy055/rpg/cmd/rpg/root"

func main() {
	root.Execute()
}
