package main

import "github.com/oshokin/light-scheduler/cmd/light-controller/cmd"

func main() {
	cmd.Execute()
}
