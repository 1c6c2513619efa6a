package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InsufficientCoinsError reports a purchase the coin balance cannot cover.
type InsufficientCoinsError struct {
	Cost  int
	Coins int
}

func (e InsufficientCoinsError) Error() string {
	return fmt.Sprintf("not enough coins (need %d, have %d)", e.Cost, e.Coins)
}

const powerHourDuration = time.Hour

type CreateShopItemInput struct {
	Name string
	Cost int
	Kind ShopKind
}

func (s *Service) CreateShopItem(ctx context.Context, in CreateShopItemInput) (*ShopItem, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	it := ShopItem{ID: uuid.NewString(), Name: name, Cost: in.Cost, Kind: in.Kind, Active: true}
	s.state.Shop = append(s.state.Shop, it)
	if err := s.flush(ctx); err != nil {
		return nil, err
	}
	return &it, nil
}

// Purchase spends coins on a shop item, logging the spend. Purchases
// are not reversible through Undo. A powerHour item activates the ×1.5
// bonus window for the next hour.
func (s *Service) Purchase(ctx context.Context, itemID string) error {
	it := s.state.ShopItemByID(itemID)
	if it == nil {
		return fmt.Errorf("shop item %s not found", itemID)
	}
	if s.state.Profile.Coins < it.Cost {
		return InsufficientCoinsError{Cost: it.Cost, Coins: s.state.Profile.Coins}
	}

	s.state.Profile.Coins -= it.Cost
	s.state.Logs = append([]LogEntry{{
		TS:    s.clock.Now(),
		Kind:  LogPurchase,
		RefID: it.ID,
		Name:  it.Name,
		Cost:  it.Cost,
		Day:   s.state.Today.Day,
	}}, s.state.Logs...)

	if it.Kind == ShopPowerHour {
		ends := s.clock.Now().Add(powerHourDuration)
		s.state.PowerHour = PowerHour{Active: true, EndsAt: &ends}
		s.notify.Toast("Power Hour active (+50% pts for 60m)")
	}

	return s.flush(ctx)
}
