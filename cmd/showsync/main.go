package main

import "github.com/electric-relaxation/concert-playlist/internal/cli"

func main() {
	cli.Execute()
}
