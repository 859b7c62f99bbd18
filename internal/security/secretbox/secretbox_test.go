package secretbox

import (
	"encoding/base64"
	"os"
	"testing"
)

func testBox(t *testing.T, seed byte) *Box {
	t.Helper()
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = seed + byte(i)
	}
	b, err := NewBoxRaw(raw)
	if err != nil {
		t.Fatalf("NewBoxRaw err: %v", err)
	}
	return b
}

func TestSealOpen_RoundTrip(t *testing.T) {
	t.Parallel()
	b := testBox(t, 1)

	for _, msg := range []string{"hunter2", "hola mundo ✓ secreto", "\x00\x01binario"} {
		env, err := b.Seal(msg)
		if err != nil {
			t.Fatalf("Seal(%q) err: %v", msg, err)
		}
		if env.Ciphertext == "" && msg != "" {
			t.Fatalf("ciphertext vacío para %q", msg)
		}
		pt, err := b.Open(env)
		if err != nil {
			t.Fatalf("Open err: %v", err)
		}
		if pt != msg {
			t.Fatalf("plaintext mismatch: got %q want %q", pt, msg)
		}
	}
}

func TestOpen_DetectsTamperPerField(t *testing.T) {
	t.Parallel()
	b := testBox(t, 7)

	env, err := b.Seal("top secret")
	if err != nil {
		t.Fatalf("Seal err: %v", err)
	}

	flip := func(s string) string {
		bs, err := base64.StdEncoding.DecodeString(s)
		if err != nil || len(bs) == 0 {
			t.Fatalf("decode: %v", err)
		}
		bs[0] ^= 0x01
		return base64.StdEncoding.EncodeToString(bs)
	}

	cases := map[string]Envelope{
		"ciphertext": {Ciphertext: flip(env.Ciphertext), Nonce: env.Nonce, AuthTag: env.AuthTag},
		"nonce":      {Ciphertext: env.Ciphertext, Nonce: flip(env.Nonce), AuthTag: env.AuthTag},
		"auth_tag":   {Ciphertext: env.Ciphertext, Nonce: env.Nonce, AuthTag: flip(env.AuthTag)},
	}
	for name, corrupted := range cases {
		if _, err := b.Open(corrupted); err != ErrIntegrity {
			t.Fatalf("%s: want ErrIntegrity, got %v", name, err)
		}
	}
}

func TestOpen_WrongKeyFailsClosed(t *testing.T) {
	t.Parallel()
	b1 := testBox(t, 10)
	b2 := testBox(t, 200)

	env, err := b1.Seal("secreto")
	if err != nil {
		t.Fatalf("Seal err: %v", err)
	}
	if _, err := b2.Open(env); err != ErrIntegrity {
		t.Fatalf("want ErrIntegrity con otra clave, got %v", err)
	}
}

func TestOpen_MalformedEnvelope(t *testing.T) {
	t.Parallel()
	b := testBox(t, 3)

	env, err := b.Seal("x")
	if err != nil {
		t.Fatalf("Seal err: %v", err)
	}

	// Falta cualquiera de los tres campos => inválido, nunca "sin secreto".
	cases := []Envelope{
		{Nonce: env.Nonce, AuthTag: env.AuthTag},
		{Ciphertext: env.Ciphertext, AuthTag: env.AuthTag},
		{Ciphertext: env.Ciphertext, Nonce: env.Nonce},
		{Ciphertext: "!!not-base64!!", Nonce: env.Nonce, AuthTag: env.AuthTag},
		{Ciphertext: env.Ciphertext, Nonce: "AAAA", AuthTag: env.AuthTag}, // nonce corto
	}
	for i, c := range cases {
		if _, err := b.Open(c); err == nil {
			t.Fatalf("case %d: expected error, got nil", i)
		}
	}
}

func TestNewBox_KeyValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewBox(""); err != ErrNoKey {
		t.Fatalf("clave vacía: want ErrNoKey, got %v", err)
	}
	if _, err := NewBox("no es base64 %%%"); err == nil {
		t.Fatal("base64 inválido: expected error")
	}
	short := base64.StdEncoding.EncodeToString(make([]byte, 16))
	if _, err := NewBox(short); err == nil {
		t.Fatal("clave de 16 bytes: expected error")
	}
	ok := base64.StdEncoding.EncodeToString(make([]byte, 32))
	if _, err := NewBox(ok); err != nil {
		t.Fatalf("clave válida: %v", err)
	}
}

func TestSeal_NonceUniqueness(t *testing.T) {
	t.Parallel()
	b := testBox(t, 42)

	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		env, err := b.Seal("misma entrada")
		if err != nil {
			t.Fatalf("Seal err: %v", err)
		}
		if _, dup := seen[env.Nonce]; dup {
			t.Fatalf("nonce repetido tras %d seals", i)
		}
		seen[env.Nonce] = struct{}{}
	}
}

func TestDefault_ErrorWhenNoKey(t *testing.T) {
	UnsafeResetDefaultForTests()
	t.Cleanup(UnsafeResetDefaultForTests)
	os.Unsetenv(EnvKey)

	if _, err := Default(); err == nil {
		t.Fatal("expected error when key missing")
	}
}

func TestDefault_LoadsOnce(t *testing.T) {
	UnsafeResetDefaultForTests()
	t.Cleanup(UnsafeResetDefaultForTests)

	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(255 - i)
	}
	os.Setenv(EnvKey, base64.StdEncoding.EncodeToString(raw))

	b1, err := Default()
	if err != nil {
		t.Fatalf("Default err: %v", err)
	}
	// Cambiar el env después de cargar no tiene efecto: la clave es única y global.
	os.Setenv(EnvKey, "otra-cosa")
	b2, err := Default()
	if err != nil || b2 != b1 {
		t.Fatalf("Default debe devolver la misma instancia (err=%v)", err)
	}
}
