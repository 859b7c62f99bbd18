// Utilidad de operador para el cifrado de sobres: keygen, seal y open.
//
//	enc keygen            genera una clave nueva (base64)
//	enc seal <texto>      cifra y emite el sobre JSON
//	enc open <json>       descifra un sobre JSON
package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/clientdesk/internal/security/secretbox"
)

func main() {
	_ = godotenv.Load(".env")

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "keygen":
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			log.Fatalf("keygen: %v", err)
		}
		fmt.Println(base64.StdEncoding.EncodeToString(key))

	case "seal":
		if len(os.Args) < 3 {
			usage()
		}
		box := mustBox()
		env, err := box.Seal(os.Args[2])
		if err != nil {
			log.Fatalf("seal: %v", err)
		}
		b, _ := json.Marshal(env)
		fmt.Println(string(b))

	case "open":
		if len(os.Args) < 3 {
			usage()
		}
		box := mustBox()
		var env secretbox.Envelope
		if err := json.Unmarshal([]byte(os.Args[2]), &env); err != nil {
			log.Fatalf("open: sobre inválido: %v", err)
		}
		out, err := box.Open(env)
		if err != nil {
			log.Fatalf("open: %v", err)
		}
		fmt.Println(out)

	default:
		usage()
	}
}

func mustBox() *secretbox.Box {
	box, err := secretbox.Default()
	if err != nil {
		log.Fatalf("%s: %v", secretbox.EnvKey, err)
	}
	return box
}

func usage() {
	fmt.Fprintln(os.Stderr, "uso: enc keygen | enc seal <texto> | enc open <json>")
	os.Exit(2)
}
