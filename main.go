package main

import "github.com/mreyesc22/MorQuestCode/cmd"

func main() {
	cmd.Execute()
}
