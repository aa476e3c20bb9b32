package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// Generate the bcrypt token_hash for etc/aprgen.toml:
//
//	go run ./tool/mybcrypt <token>
//	go run ./tool/mybcrypt <token> <hash>   # verify mode
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: mybcrypt <token> [hash]")
		os.Exit(1)
	}
	token := []byte(os.Args[1])

	if len(os.Args) > 2 {
		err := bcrypt.CompareHashAndPassword([]byte(os.Args[2]), token)
		if err != nil {
			fmt.Println("token does not match hash:", err)
			os.Exit(1)
		}
		fmt.Println("token matches hash")
		return
	}

	hash, err := bcrypt.GenerateFromPassword(token, bcrypt.DefaultCost)
	if err != nil {
		fmt.Println("bcrypt failed:", err)
		os.Exit(1)
	}
	fmt.Println(string(hash))
}
