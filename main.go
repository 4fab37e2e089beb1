package main

import "mehndi-album-backend/cmd"

func main() {
	cmd.Run()
}
