// Command skillswap is a terminal client for the SkillSwap Hub API.
package main

func main() {
	Execute()
}
