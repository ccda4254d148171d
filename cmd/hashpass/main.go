// Command hashpass prints the bcrypt hash to use as OPERATOR_PASSWORD_HASH.
//
// Usage:
//
//	echo -n 'secret password' | hashpass
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mmynk/rollbook/internal/auth"
)

func main() {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintf(os.Stderr, "failed to read password: %v\n", err)
		os.Exit(1)
	}

	hash, err := auth.HashPassword(strings.TrimRight(line, "\r\n"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
