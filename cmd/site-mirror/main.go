package main

import cmd "github.com/rohmanhakim/site-mirror/internal/cli"

func main() {
	cmd.Execute()
}
