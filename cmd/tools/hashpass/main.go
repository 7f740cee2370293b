// hashpass 打印密码的 bcrypt 哈希，用于手工往 users 表里插账号
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"linkcut.local/internal/platform/auth"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatal("usage: go run ./cmd/tools/hashpass <password>")
	}

	hash, err := auth.NewBcryptHasher().Hash(os.Args[1])
	if errors.Is(err, auth.ErrPasswordTooLong) {
		log.Fatalf("password must be at most %d bytes", auth.MaxPasswordBytes)
	}
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(hash)
}
