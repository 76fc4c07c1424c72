// Package main is the entry point for denda, the multi-device penalty calculator.
package main

func main() {
	Execute()
}
