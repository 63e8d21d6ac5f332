package main

import "github.com/divron/attendance/cmd"

func main() {
	cmd.Execute()
}
