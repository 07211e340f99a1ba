// Commande hashpassword : produit la valeur de ADMIN_PASSWORD_HASH.
//
//	echo -n 'mot de passe' | go run ./cmd/hashpassword
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"catalogue_back_end/internal/utils"
)

func main() {
	password, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && password == "" {
		log.Fatalf("❌ Lecture du mot de passe: %v", err)
	}
	password = strings.TrimRight(password, "\r\n")
	if password == "" {
		log.Fatal("❌ Mot de passe vide")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("❌ Hash du mot de passe: %v", err)
	}
	fmt.Printf("ADMIN_PASSWORD_HASH='%s'\n", hash)
}
