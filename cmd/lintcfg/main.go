// Package main provides the lintcfg CLI for resolving shared lint
// configurations from base profiles and team override fragments.
package main

func main() {
	Execute()
}
