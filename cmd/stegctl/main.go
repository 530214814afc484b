// Command stegctl hides text in images and recovers it.
//
//	stegctl encode --cover in.png --out stego.png --text "hello world"
//	stegctl decode stego1.png stego2.png
//	stegctl capacity --width 256 --height 256 --text "hello world"
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "stegctl: %v\n", err)
		os.Exit(1)
	}
}
