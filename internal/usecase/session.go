package usecase

import (
	"context"
	"errors"
	"storefront/internal/domain"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKeyCart struct{}
type ctxKeyWishlist struct{}

// WithSession attaches a session's containers to ctx.
func WithSession(ctx context.Context, cart CartUseCase, wishlist WishlistUseCase) context.Context {
	ctx = context.WithValue(ctx, ctxKeyCart{}, cart)
	return context.WithValue(ctx, ctxKeyWishlist{}, wishlist)
}

func LookupCart(ctx context.Context) (CartUseCase, bool) {
	cart, ok := ctx.Value(ctxKeyCart{}).(CartUseCase)
	return cart, ok && cart != nil
}

func LookupWishlist(ctx context.Context) (WishlistUseCase, bool) {
	wishlist, ok := ctx.Value(ctxKeyWishlist{}).(WishlistUseCase)
	return wishlist, ok && wishlist != nil
}

// CartFromContext panics when ctx was not prepared by the session provider. That is a
// wiring mistake, not a runtime condition.
func CartFromContext(ctx context.Context) CartUseCase {
	cart, ok := LookupCart(ctx)
	if !ok {
		panic("cart must be used within a session provider")
	}
	return cart
}

func WishlistFromContext(ctx context.Context) WishlistUseCase {
	wishlist, ok := LookupWishlist(ctx)
	if !ok {
		panic("wishlist must be used within a session provider")
	}
	return wishlist
}

type session struct {
	cart     CartUseCase
	wishlist WishlistUseCase
	lastSeen time.Time
}

// SessionProvider owns the live containers of every active session. Idle sessions are
// dropped from memory after ttl; their state stays in storage and is hydrated again on
// the next request.
type SessionProvider struct {
	storage  domain.StorageFactory
	ttl      time.Duration
	now      func() time.Time
	mu       sync.Mutex
	sessions map[string]*session
	log      *logrus.Logger
}

func NewSessionProvider(storage domain.StorageFactory, ttl time.Duration, logger *logrus.Logger) *SessionProvider {
	return &SessionProvider{
		storage:  storage,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*session),
		log:      logger,
	}
}

// Open returns the containers of sessionID, creating and hydrating them on first use.
func (p *SessionProvider) Open(ctx context.Context, sessionID string) (CartUseCase, WishlistUseCase) {
	p.mu.Lock()
	if s, ok := p.sessions[sessionID]; ok {
		s.lastSeen = p.now()
		p.mu.Unlock()
		return s.cart, s.wishlist
	}
	p.mu.Unlock()

	entry := p.log.WithField("session", sessionID)
	store := p.storage.ForSession(sessionID)
	created := &session{
		cart:     NewCartUseCase(ctx, store, entry),
		wishlist: NewWishlistUseCase(ctx, store, entry),
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// another request for the same session may have won the race
	if s, ok := p.sessions[sessionID]; ok {
		s.lastSeen = p.now()
		return s.cart, s.wishlist
	}
	created.lastSeen = p.now()
	p.sessions[sessionID] = created
	entry.Debug("Use Case: Session opened")
	return created.cart, created.wishlist
}

// Bind opens sessionID and attaches its containers to ctx.
func (p *SessionProvider) Bind(ctx context.Context, sessionID string) context.Context {
	cart, wishlist := p.Open(ctx, sessionID)
	return WithSession(ctx, cart, wishlist)
}

func (p *SessionProvider) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}

// EvictIdle drops sessions not seen for longer than ttl and reports how many were dropped.
func (p *SessionProvider) EvictIdle() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	cutoff := p.now().Add(-p.ttl)
	evicted := 0
	for id, s := range p.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(p.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		p.log.Infof("Use Case: Evicted %d idle sessions, %d remain", evicted, len(p.sessions))
	}
	return evicted
}

// RunJanitor evicts idle sessions every interval until ctx is done.
func (p *SessionProvider) RunJanitor(ctx context.Context, interval time.Duration, wg *sync.WaitGroup) {
	defer wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Use Case: Session janitor stopped")
			return
		case <-ticker.C:
			p.EvictIdle()
		}
	}
}

// MoveToWishlist copies a cart line into the wishlist and then removes it from the cart.
// The two steps are independent; a failure between them can leave the item in both.
func MoveToWishlist(ctx context.Context, cart CartUseCase, wishlist WishlistUseCase, catalog domain.ProductRepository, id string, logger logrus.FieldLogger) (domain.CartState, domain.WishlistState, error) {
	var line *domain.CartLineItem
	for _, it := range cart.State().Items {
		if it.ID == id {
			it := it
			line = &it
			break
		}
	}
	if line == nil {
		return cart.State(), wishlist.State(), domain.ErrItemNotFound
	}

	category := domain.DefaultWishlistGroup
	if catalog != nil {
		product, err := catalog.GetProductBySlug(ctx, id)
		switch {
		case err == nil && product.Category != "":
			category = product.Category
		case err != nil && !errors.Is(err, domain.ErrProductNotFound):
			logger.WithError(err).Warnf("Use Case: Category lookup for '%s' failed, using %s", id, domain.DefaultWishlistGroup)
		}
	}

	wl := wishlist.AddItem(ctx, domain.WishlistItem{
		ID:       line.ID,
		Name:     line.Name,
		Price:    line.Price,
		Image:    line.Image,
		Category: category,
	})
	cs := cart.RemoveItem(ctx, id)
	return cs, wl, nil
}
