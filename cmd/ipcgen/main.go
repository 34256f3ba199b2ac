package main

import "github.com/mvp-joe/ipcgen/internal/cli"

func main() {
	cli.Execute()
}
