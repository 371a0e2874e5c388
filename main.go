package main

import "github.com/redactyl/keyelf/cmd/keyelf"

func main() { keyelf.Execute() }
