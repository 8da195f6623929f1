package session

import "context"

// Provider is the request-scoped capability the access guard consumes.
// A nil session with a nil error means "no session" rather than a lookup
// failure, so callers never have to compare error text.
type Provider interface {
	GetSession(ctx context.Context) (*Session, error)
	RefreshSession(ctx context.Context) (*Session, error)
	SignOut(ctx context.Context) error
}

// storeProvider binds a Store to the session id carried by one request.
type storeProvider struct {
	store *Store
	id    string
}

// ForRequest builds a Provider for the session id extracted from the
// request's cookie. An empty id yields a provider that reports no session.
func ForRequest(store *Store, id string) Provider {
	return &storeProvider{store: store, id: id}
}

func (p *storeProvider) GetSession(ctx context.Context) (*Session, error) {
	if p.id == "" {
		return nil, nil
	}
	sess, err := p.store.Get(ctx, p.id)
	if err == ErrNotFound {
		return nil, nil
	}
	return sess, err
}

func (p *storeProvider) RefreshSession(ctx context.Context) (*Session, error) {
	if p.id == "" {
		return nil, nil
	}
	sess, err := p.store.Refresh(ctx, p.id)
	if err == ErrNotFound || err == ErrRefreshDenied {
		return nil, nil
	}
	return sess, err
}

func (p *storeProvider) SignOut(ctx context.Context) error {
	if p.id == "" {
		return nil
	}
	return p.store.Delete(ctx, p.id)
}
