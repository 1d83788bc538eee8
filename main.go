package main

import "github.com/lukman83/envato-scrape/cmd"

func main() {
	cmd.Execute()
}
