// Package main provides the anchortip command line.
package main

func main() {
	Execute()
}
