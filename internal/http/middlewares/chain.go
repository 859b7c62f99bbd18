// Package middlewares contiene los decoradores HTTP del portal: request id,
// logging, recover, autenticación y chequeo de rol ADMIN.
package middlewares

import "net/http"

// Middleware es un decorador de http.Handler. El router los aplica por
// grupo; el orden de montaje define el orden de intercepción.
type Middleware func(http.Handler) http.Handler
