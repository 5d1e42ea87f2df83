package state

import (
	"context"
	"encoding/json"
	"fmt"

	"restaurant/ordering/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Storage keys, the same names the site used in browser local storage.
const (
	CartKey      = "cart"
	FavoritesKey = "favs"
)

func EncodeCart(items []domain.LineItem) ([]byte, error) {
	if items == nil {
		items = []domain.LineItem{}
	}
	return json.Marshal(items)
}

func DecodeCart(data []byte) ([]domain.LineItem, error) {
	if len(data) == 0 {
		return []domain.LineItem{}, nil
	}
	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: cart: %v", domain.ErrStorageCorrupt, err)
	}
	if items == nil {
		items = []domain.LineItem{}
	}
	return items, nil
}

func EncodeFavorites(ids []domain.ProductID) ([]byte, error) {
	if ids == nil {
		ids = []domain.ProductID{}
	}
	return json.Marshal(ids)
}

func DecodeFavorites(data []byte) ([]domain.ProductID, error) {
	if len(data) == 0 {
		return []domain.ProductID{}, nil
	}
	var ids []domain.ProductID
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("%w: favorites: %v", domain.ErrStorageCorrupt, err)
	}
	if ids == nil {
		ids = []domain.ProductID{}
	}
	return ids, nil
}

// Snapshots reads and writes the typed collections. Reads never fail: a
// missing, unreadable or corrupt snapshot is an empty collection. Write
// failures are logged and swallowed; the in-memory state stays authoritative.
type Snapshots struct {
	store Store
}

func NewSnapshots(store Store) *Snapshots {
	return &Snapshots{store: store}
}

func (s *Snapshots) LoadCart(ctx context.Context) []domain.LineItem {
	data, err := s.store.Load(ctx, CartKey)
	if err != nil {
		log.Errorf("❌ Failed to read cart snapshot, starting empty: %v", err)
		return []domain.LineItem{}
	}
	items, err := DecodeCart(data)
	if err != nil {
		log.Warnf("⚠️ Ignoring stored cart: %v", err)
		return []domain.LineItem{}
	}
	return items
}

func (s *Snapshots) LoadFavorites(ctx context.Context) []domain.ProductID {
	data, err := s.store.Load(ctx, FavoritesKey)
	if err != nil {
		log.Errorf("❌ Failed to read favorites snapshot, starting empty: %v", err)
		return []domain.ProductID{}
	}
	ids, err := DecodeFavorites(data)
	if err != nil {
		log.Warnf("⚠️ Ignoring stored favorites: %v", err)
		return []domain.ProductID{}
	}
	return ids
}

// SaveCart reports whether the write went through.
func (s *Snapshots) SaveCart(ctx context.Context, items []domain.LineItem) bool {
	data, err := EncodeCart(items)
	if err != nil {
		log.Errorf("❌ Failed to encode cart: %v", err)
		return false
	}
	if err := s.store.Save(ctx, CartKey, data); err != nil {
		log.Errorf("❌ Failed to persist cart, keeping in-memory state: %v", err)
		return false
	}
	return true
}

// SaveFavorites reports whether the write went through.
func (s *Snapshots) SaveFavorites(ctx context.Context, ids []domain.ProductID) bool {
	data, err := EncodeFavorites(ids)
	if err != nil {
		log.Errorf("❌ Failed to encode favorites: %v", err)
		return false
	}
	if err := s.store.Save(ctx, FavoritesKey, data); err != nil {
		log.Errorf("❌ Failed to persist favorites, keeping in-memory state: %v", err)
		return false
	}
	return true
}
