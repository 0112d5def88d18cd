package main

import "github.com/BuzzLyutic/taskchat/internal/cli"

func main() {
	cli.Execute()
}
