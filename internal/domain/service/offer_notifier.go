package service

import (
	"context"
	"errors"

	"startupmarket/internal/domain/entity"
)

// OfferNotifier delivers offer events to interested parties.
type OfferNotifier interface {
	Notify(ctx context.Context, event entity.OfferEvent) error
}

type multiNotifier struct {
	notifiers []OfferNotifier
}

// NewMultiNotifier fans an event out to every non-nil notifier.
func NewMultiNotifier(notifiers ...OfferNotifier) OfferNotifier {
	m := &multiNotifier{}
	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
	return m
}

func (m *multiNotifier) Notify(ctx context.Context, event entity.OfferEvent) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
