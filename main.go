/*
Copyright © 2025 Maarifa Authors
*/
package main

import "maarifa/cmd"

func main() {
	cmd.Execute()
}
