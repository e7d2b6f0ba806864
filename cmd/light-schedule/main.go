package main

import "github.com/oshokin/light-scheduler/cmd/light-schedule/cmd"

func main() {
	cmd.Execute()
}
