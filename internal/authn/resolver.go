package authn

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/clientdesk/internal/authz"
	"github.com/dropDatabas3/clientdesk/internal/cache"
	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	"github.com/dropDatabas3/clientdesk/internal/observability/logger"
)

// cachedPrincipal es la forma serializada del principal en cache.
type cachedPrincipal struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	ClientID *string `json:"clientId,omitempty"`
}

// Resolver mapea subject -> principal validado, con cache y dedup de
// lookups concurrentes (singleflight) para no castigar la DB en ráfagas.
type Resolver struct {
	store repository.Store
	cache cache.Client
	ttl   time.Duration
	group singleflight.Group
}

func NewResolver(store repository.Store, c cache.Client, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &Resolver{store: store, cache: c, ttl: ttl}
}

// Resolve devuelve el principal del subject dado.
// repository.ErrNotFound si el subject no tiene usuario local.
func (r *Resolver) Resolve(ctx context.Context, subject string) (*authz.Principal, error) {
	key := "principal:" + subject

	if r.cache != nil {
		if b, ok, err := r.cache.Get(ctx, key); err == nil && ok {
			var cp cachedPrincipal
			if json.Unmarshal(b, &cp) == nil {
				p, err := authz.NewPrincipal(cp.ID, cp.Email, authz.Role(cp.Role), cp.ClientID)
				if err == nil {
					return &p, nil
				}
				// Entrada corrupta: se descarta y se resuelve de nuevo.
				_ = r.cache.Delete(ctx, key)
			}
		}
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		u, err := r.store.GetUserBySubject(ctx, subject)
		if err != nil {
			return nil, err
		}
		p, err := authz.NewPrincipal(u.ID, u.Email, authz.Role(u.Role), u.ClientID)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			b, merr := json.Marshal(cachedPrincipal{
				ID: p.ID, Email: p.Email, Role: string(p.Role), ClientID: p.ClientID,
			})
			if merr == nil {
				if cerr := r.cache.Set(ctx, key, b, r.ttl); cerr != nil {
					logger.From(ctx).Warn("principal_cache_set_failed", logger.Err(cerr))
				}
			}
		}
		return &p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*authz.Principal), nil
}

// Invalidate descarta la entrada cacheada de un subject (cambio de rol).
func (r *Resolver) Invalidate(ctx context.Context, subject string) {
	if r.cache != nil {
		_ = r.cache.Delete(ctx, "principal:"+subject)
	}
}
