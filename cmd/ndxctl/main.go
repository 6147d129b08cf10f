// Command ndxctl extracts and inspects images stored in ndx/dat asset pairs.
package main

func main() {
	execute()
}
