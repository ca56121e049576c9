package main

import "github.com/liftedinit/hashchain/cmd/hashchain"

func main() {
	hashchain.Execute()
}
