package main

import "github.com/zuplo/github-action-slack-notify-build/cmd"

func main() {
	cmd.Execute()
}
