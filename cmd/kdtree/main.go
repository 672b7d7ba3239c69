package main

import "github.com/Bersaelor/KDTree-sub000/internal/cli"

func main() {
	cli.Execute()
}
