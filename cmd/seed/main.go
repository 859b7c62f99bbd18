// Siembra datos de demo: un cliente, una credencial cifrada, dominio y
// hosting vinculados, un ADMIN y un usuario CLIENT.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	"github.com/dropDatabas3/clientdesk/internal/security/password"
	"github.com/dropDatabas3/clientdesk/internal/security/secretbox"
	"github.com/dropDatabas3/clientdesk/internal/store/pg"
)

func strPtr(s string) *string { return &s }

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	box, err := secretbox.Default()
	if err != nil {
		log.Fatalf("%s: %v", secretbox.EnvKey, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	st, err := pg.New(ctx, dsn, pg.Tuning{})
	if err != nil {
		log.Fatalf("pg: %v", err)
	}
	defer st.Close()

	// Cliente demo
	client := &repository.Client{
		Name:         "Acme Estudio",
		Company:      strPtr("Acme Estudio SRL"),
		EmailPrimary: "hola@acme-estudio.test",
	}
	if err := st.CreateClient(ctx, client); err != nil {
		log.Fatalf("client: %v", err)
	}

	// Credencial cifrada
	env, err := box.Seal("DemoPassword!123")
	if err != nil {
		log.Fatalf("seal: %v", err)
	}
	cred := &repository.Credential{
		Label:    "Panel del registrador",
		Username: strPtr("acme-admin"),
		Envelope: env,
	}
	if err := st.CreateCredential(ctx, cred); err != nil {
		log.Fatalf("credential: %v", err)
	}

	// Dominio y hosting vinculados a la credencial
	domain := &repository.Domain{
		ClientID:     client.ID,
		DomainName:   "acme-estudio.test",
		Registrar:    "nic.test",
		Nameservers:  "ns1.test, ns2.test",
		CredentialID: &cred.ID,
	}
	if err := st.CreateDomain(ctx, domain); err != nil {
		log.Fatalf("domain: %v", err)
	}
	hosting := &repository.Hosting{
		ClientID:     client.ID,
		Provider:     "hetzner",
		Plan:         strPtr("cx22"),
		Region:       strPtr("fsn1"),
		CredentialID: &cred.ID,
	}
	if err := st.CreateHosting(ctx, hosting); err != nil {
		log.Fatalf("hosting: %v", err)
	}

	// Usuarios: un ADMIN y un CLIENT del tenant demo
	admin := &repository.AppUser{
		Subject: strPtr("seed-admin"),
		Email:   "admin@clientdesk.test",
		Role:    "ADMIN",
	}
	if err := st.CreateUser(ctx, admin); err != nil {
		log.Fatalf("admin: %v", err)
	}

	hash, err := password.Hash(password.Default, "DemoPassword!123")
	if err != nil {
		log.Fatalf("hash: %v", err)
	}
	user := &repository.AppUser{
		Subject:      strPtr("seed-client"),
		Email:        "cliente@acme-estudio.test",
		Role:         "CLIENT",
		ClientID:     &client.ID,
		PasswordHash: &hash,
	}
	if err := st.CreateUser(ctx, user); err != nil {
		log.Fatalf("user: %v", err)
	}

	log.Printf("seed ok: client=%s credential=%s admin=%s user=%s",
		client.ID, cred.ID, admin.ID, user.ID)
}
