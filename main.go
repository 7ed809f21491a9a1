package main

import "github.com/rankflow/Nutrax/cmd/nutrax"

func main() {
	nutrax.Execute()
}
