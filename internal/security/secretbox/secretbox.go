// Package secretbox cifra secretos de credenciales en reposo con AES-256-GCM.
//
// Cada secreto se guarda como un sobre de tres campos (ciphertext, nonce y
// auth tag, todos en base64). El nonce es aleatorio y único por Seal; por eso
// se persiste por fila en lugar de derivarse. Open verifica el tag antes de
// devolver el texto plano: cualquier alteración falla cerrado.
package secretbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

const (
	// EnvKey es la variable de entorno con la clave maestra en base64.
	EnvKey = "ENCRYPTION_KEY"

	nonceSize = 12 // 96 bits, tamaño recomendado para GCM
	keySize   = 32 // AES-256
)

var (
	// ErrNoKey indica que no hay clave configurada (error de configuración, no de usuario).
	ErrNoKey = errors.New("secretbox: no hay clave configurada; genere una con: openssl rand -base64 32")

	// ErrBadKey indica una clave presente pero con encoding o largo inválido.
	ErrBadKey = errors.New("secretbox: la clave debe decodificar a 32 bytes")

	// ErrIntegrity indica que el auth tag no verifica: fila corrupta o clave equivocada.
	ErrIntegrity = errors.New("secretbox: verificación de integridad fallida")

	// ErrMalformedEnvelope indica un sobre incompleto o con base64 inválido.
	// Una fila a la que le falta cualquiera de los tres campos es inválida,
	// nunca se trata como "sin secreto".
	ErrMalformedEnvelope = errors.New("secretbox: sobre malformado")
)

// Envelope es el triple persistido por credencial.
// Los tres campos son obligatorios en conjunto.
type Envelope struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
	AuthTag    string `json:"authTag"`
}

// Box encapsula una clave de 32 bytes. Es inmutable después de construida
// y segura para uso concurrente.
type Box struct {
	key []byte
}

// NewBox construye un Box desde una clave en base64 estándar.
func NewBox(base64Key string) (*Box, error) {
	base64Key = strings.TrimSpace(base64Key)
	if base64Key == "" {
		return nil, ErrNoKey
	}
	k, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadKey, err)
	}
	return NewBoxRaw(k)
}

// NewBoxRaw construye un Box desde los 32 bytes crudos de la clave.
func NewBoxRaw(key []byte) (*Box, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("%w: obtuvo %d", ErrBadKey, len(key))
	}
	b := &Box{key: make([]byte, keySize)}
	copy(b.key, key)
	return b, nil
}

// Seal cifra plaintext con un nonce fresco y devuelve el sobre.
// Los nonces no se reutilizan jamás bajo la misma clave.
func (b *Box) Seal(plaintext string) (Envelope, error) {
	aead, err := b.aead()
	if err != nil {
		return Envelope{}, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return Envelope{}, fmt.Errorf("secretbox: nonce random: %w", err)
	}

	// Seal devuelve ciphertext||tag; separamos el tag para persistirlo aparte.
	sealed := aead.Seal(nil, nonce, []byte(plaintext), nil)
	tagAt := len(sealed) - aead.Overhead()

	return Envelope{
		Ciphertext: base64.StdEncoding.EncodeToString(sealed[:tagAt]),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		AuthTag:    base64.StdEncoding.EncodeToString(sealed[tagAt:]),
	}, nil
}

// Open descifra un sobre y devuelve el texto plano.
// Falla con ErrMalformedEnvelope si falta o no decodifica algún campo,
// y con ErrIntegrity si el tag no verifica.
func (b *Box) Open(env Envelope) (string, error) {
	if env.Ciphertext == "" || env.Nonce == "" || env.AuthTag == "" {
		return "", ErrMalformedEnvelope
	}
	ct, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext: %v", ErrMalformedEnvelope, err)
	}
	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil {
		return "", fmt.Errorf("%w: nonce: %v", ErrMalformedEnvelope, err)
	}
	tag, err := base64.StdEncoding.DecodeString(env.AuthTag)
	if err != nil {
		return "", fmt.Errorf("%w: auth tag: %v", ErrMalformedEnvelope, err)
	}
	if len(nonce) != nonceSize {
		return "", fmt.Errorf("%w: nonce de %d bytes", ErrMalformedEnvelope, len(nonce))
	}

	aead, err := b.aead()
	if err != nil {
		return "", err
	}

	pt, err := aead.Open(nil, nonce, append(ct, tag...), nil)
	if err != nil {
		return "", ErrIntegrity
	}
	return string(pt), nil
}

func (b *Box) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(b.key)
	if err != nil {
		return nil, fmt.Errorf("secretbox: aes.NewCipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Provider resuelve el Box en el momento de uso, no al armar el grafo de
// servicios. Así el proceso arranca sin clave y los caminos que no tocan
// secretos siguen sirviendo; sólo Seal/Open fallan.
type Provider func() (*Box, error)

// Fixed devuelve un Provider que siempre entrega el mismo Box.
func Fixed(b *Box) Provider {
	return func() (*Box, error) { return b, nil }
}

// --- Clave global (carga perezosa) ---

var (
	defaultOnce sync.Once
	defaultBox  *Box
	defaultErr  error
)

// Default carga la clave desde ENCRYPTION_KEY una sola vez y devuelve el Box
// global. La validación ocurre en el primer uso, no al arrancar el proceso:
// los caminos que no tocan secretos no se ven afectados por una clave ausente.
func Default() (*Box, error) {
	defaultOnce.Do(func() {
		kb64 := strings.TrimSpace(os.Getenv(EnvKey))
		if kb64 == "" {
			defaultErr = fmt.Errorf("%w (%s no seteada)", ErrNoKey, EnvKey)
			return
		}
		defaultBox, defaultErr = NewBox(kb64)
	})
	return defaultBox, defaultErr
}

// UnsafeResetDefaultForTests borra el estado global. Usar sólo en tests.
func UnsafeResetDefaultForTests() {
	defaultOnce = sync.Once{}
	defaultBox = nil
	defaultErr = nil
}
