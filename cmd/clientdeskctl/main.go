package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	Token     string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte, headers map[string]string) (int, []byte, error) {
	u := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, u, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func main() {
	var (
		baseURL = envOr("CLIENTDESK_URL", "http://localhost:8080")
		token   = envOr("CLIENTDESK_TOKEN", "")
		out     = envOr("CLIENTDESK_OUT", "text")
		timeout = 30 * time.Second
	)

	root := &cobra.Command{
		Use:   "clientdeskctl",
		Short: "CLI admin para ClientDesk (via /v1/admin)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("falta token (flag --token o env CLIENTDESK_TOKEN)")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del API (env CLIENTDESK_URL)")
	root.PersistentFlags().StringVar(&token, "token", token, "Bearer token de un usuario ADMIN (env CLIENTDESK_TOKEN)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	httpClient := &http.Client{Timeout: timeout}
	cl := &client{BaseURL: baseURL, Token: token, OutFormat: out, HTTP: httpClient}

	// ping: usa GET /v1/admin/clients
	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Ping al API admin (requiere token ADMIN)",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/v1/admin/clients", nil, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("ping fallo: status=%d body=%s", status, string(body))
			}
			if cl.OutFormat == "text" {
				fmt.Println("ok")
				return nil
			}
			cl.print(status, []byte(`{"ok":true}`))
			return nil
		},
	}

	// clients
	clientsCmd := &cobra.Command{Use: "clients", Short: "Operaciones sobre clientes"}

	clientsListCmd := &cobra.Command{
		Use:   "list",
		Short: "Listar clientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/v1/admin/clients", nil, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("clients list fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}

	var newName, newCompany, newEmail string
	clientsCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Crear un cliente",
		RunE: func(cmd *cobra.Command, args []string) error {
			if newName == "" {
				return fmt.Errorf("--name es requerido")
			}
			if newEmail == "" {
				return fmt.Errorf("--email es requerido")
			}
			payload := map[string]any{
				"name":         newName,
				"emailPrimary": newEmail,
			}
			if newCompany != "" {
				payload["company"] = newCompany
			}
			b, _ := json.Marshal(payload)
			status, body, err := cl.do("POST", "/v1/admin/clients", b, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("clients create fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	clientsCreateCmd.Flags().StringVar(&newName, "name", "", "Nombre del cliente")
	clientsCreateCmd.Flags().StringVar(&newCompany, "company", "", "Razón social (opcional)")
	clientsCreateCmd.Flags().StringVar(&newEmail, "email", "", "Email primario")

	clientsCmd.AddCommand(clientsListCmd)
	clientsCmd.AddCommand(clientsCreateCmd)

	// credentials
	credsCmd := &cobra.Command{Use: "credentials", Short: "Operaciones sobre credenciales"}

	credsListCmd := &cobra.Command{
		Use:   "list",
		Short: "Listar credenciales (metadata, sin secretos)",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/v1/admin/credentials", nil, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("credentials list fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}

	var credClient, credLabel, credUser, credSecret string
	credsCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Crear una credencial cifrada para un cliente",
		RunE: func(cmd *cobra.Command, args []string) error {
			if credClient == "" {
				return fmt.Errorf("--client es requerido")
			}
			if credLabel == "" {
				return fmt.Errorf("--label es requerido")
			}
			if credSecret == "" {
				return fmt.Errorf("--secret es requerido")
			}
			payload := map[string]any{
				"label":  credLabel,
				"secret": credSecret,
			}
			if credUser != "" {
				payload["username"] = credUser
			}
			b, _ := json.Marshal(payload)
			status, body, err := cl.do("POST", "/v1/admin/clients/"+credClient+"/credentials", b, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("credentials create fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	credsCreateCmd.Flags().StringVar(&credClient, "client", "", "ID del cliente")
	credsCreateCmd.Flags().StringVar(&credLabel, "label", "", "Etiqueta de la credencial")
	credsCreateCmd.Flags().StringVar(&credUser, "username", "", "Usuario (opcional)")
	credsCreateCmd.Flags().StringVar(&credSecret, "secret", "", "Secreto en claro (se cifra del lado del server)")

	var revealID string
	revealCmd := &cobra.Command{
		Use:   "reveal",
		Short: "Revelar el secreto de una credencial (queda auditado)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if revealID == "" {
				return fmt.Errorf("--id es requerido")
			}
			b, _ := json.Marshal(map[string]string{"credentialId": revealID})
			status, body, err := cl.do("POST", "/v1/credentials/reveal", b, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("reveal fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	revealCmd.Flags().StringVar(&revealID, "id", "", "ID de la credencial")

	credsCmd.AddCommand(credsListCmd)
	credsCmd.AddCommand(credsCreateCmd)
	credsCmd.AddCommand(revealCmd)

	// access-logs
	var logsLimit int
	logsCmd := &cobra.Command{
		Use:   "access-logs",
		Short: "Ver el log de accesos a secretos (append-only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/v1/admin/access-logs"
			if logsLimit > 0 {
				path = fmt.Sprintf("%s?limit=%d", path, logsLimit)
			}
			status, body, err := cl.do("GET", path, nil, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("access-logs fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	logsCmd.Flags().IntVar(&logsLimit, "limit", 0, "Cantidad de entradas (default del server)")

	// invites
	invitesCmd := &cobra.Command{Use: "invites", Short: "Operaciones sobre invitaciones"}

	var invEmail, invClient string
	var invDays int
	invitesCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Crear una invitación (el token se muestra una sola vez)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if invEmail == "" {
				return fmt.Errorf("--email es requerido")
			}
			if invClient == "" {
				return fmt.Errorf("--client es requerido")
			}
			payload := map[string]any{
				"email":    invEmail,
				"clientId": invClient,
			}
			if invDays > 0 {
				payload["expiresInDays"] = invDays
			}
			b, _ := json.Marshal(payload)
			status, body, err := cl.do("POST", "/v1/admin/invites", b, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("invites create fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	invitesCreateCmd.Flags().StringVar(&invEmail, "email", "", "Email del invitado")
	invitesCreateCmd.Flags().StringVar(&invClient, "client", "", "ID del cliente")
	invitesCreateCmd.Flags().IntVar(&invDays, "expires-in-days", 0, "Vigencia en días (1..60, default 7)")

	var invListClient string
	invitesListCmd := &cobra.Command{
		Use:   "list",
		Short: "Listar invitaciones",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/v1/admin/invites"
			if invListClient != "" {
				path += "?clientId=" + url.QueryEscape(invListClient)
			}
			status, body, err := cl.do("GET", path, nil, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("invites list fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	invitesListCmd.Flags().StringVar(&invListClient, "client", "", "Filtrar por ID de cliente (opcional)")

	invitesCmd.AddCommand(invitesCreateCmd)
	invitesCmd.AddCommand(invitesListCmd)

	// wiring
	root.AddCommand(pingCmd)
	root.AddCommand(clientsCmd)
	root.AddCommand(credsCmd)
	root.AddCommand(logsCmd)
	root.AddCommand(invitesCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
