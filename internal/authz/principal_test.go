package authz

import "testing"

func strPtr(s string) *string { return &s }

func TestNewPrincipal_Invariant(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		role     Role
		clientID *string
		wantErr  bool
	}{
		{"admin sin cliente", RoleAdmin, nil, false},
		{"admin con cliente", RoleAdmin, strPtr("t1"), true},
		{"client con cliente", RoleClient, strPtr("t1"), false},
		{"client sin cliente", RoleClient, nil, true},
		{"client con cliente vacío", RoleClient, strPtr("  "), true},
		{"rol desconocido", Role("ROOT"), nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPrincipal("u1", "u@x.com", tc.role, tc.clientID)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err=%v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestCanAccessClient(t *testing.T) {
	t.Parallel()

	admin, _ := NewPrincipal("a", "a@x.com", RoleAdmin, nil)
	client, _ := NewPrincipal("c", "c@x.com", RoleClient, strPtr("t1"))

	if !CanAccessClient(admin, nil) || !CanAccessClient(admin, strPtr("t9")) {
		t.Fatal("admin debe acceder a todo")
	}
	if !CanAccessClient(client, strPtr("t1")) {
		t.Fatal("client debe acceder a su tenant")
	}
	if CanAccessClient(client, strPtr("t2")) {
		t.Fatal("client no debe acceder a otro tenant")
	}
	if CanAccessClient(client, nil) {
		t.Fatal("client no debe acceder a recursos sin tenant")
	}
}

func TestCanAccessAny(t *testing.T) {
	t.Parallel()

	admin, _ := NewPrincipal("a", "a@x.com", RoleAdmin, nil)
	client, _ := NewPrincipal("c", "c@x.com", RoleClient, strPtr("t2"))

	if !CanAccessAny(admin, nil) {
		t.Fatal("admin accede aun sin tenants vinculados")
	}
	if CanAccessAny(client, nil) || CanAccessAny(client, []string{}) {
		t.Fatal("client no accede a credenciales sin tenants vinculados")
	}
	if !CanAccessAny(client, []string{"t1", "t2"}) {
		t.Fatal("pertenencia al conjunto debe permitir")
	}
	if CanAccessAny(client, []string{"t1", "t3"}) {
		t.Fatal("fuera del conjunto debe denegar")
	}
}

func TestListScope(t *testing.T) {
	t.Parallel()

	admin, _ := NewPrincipal("a", "a@x.com", RoleAdmin, nil)
	client, _ := NewPrincipal("c", "c@x.com", RoleClient, strPtr("t1"))

	if ListScope(admin) != nil {
		t.Fatal("admin: sin filtro")
	}
	if got := ListScope(client); got == nil || *got != "t1" {
		t.Fatalf("client: filtro t1, got %v", got)
	}
}
