package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startupmarket/internal/adapter/repository"
	"startupmarket/internal/domain/entity"
	domainrepo "startupmarket/internal/domain/repository"
	"startupmarket/pkg/errors"
)

const (
	sellerID   = "seller-1"
	buyerID    = "buyer-1"
	strangerID = "stranger-1"
)

type captureNotifier struct {
	mu     sync.Mutex
	events []entity.OfferEvent
}

func (n *captureNotifier) Notify(_ context.Context, event entity.OfferEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *captureNotifier) last() entity.OfferEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events[len(n.events)-1]
}

type offerFixture struct {
	uc       *OfferUseCase
	offers   domainrepo.OfferRepository
	products domainrepo.ProductRepository
	users    domainrepo.UserRepository
	notifier *captureNotifier
	product  *entity.Product
}

func newOfferFixture(t *testing.T) *offerFixture {
	t.Helper()
	ctx := context.Background()

	f := &offerFixture{
		offers:   repository.NewMemoryOfferRepository(),
		products: repository.NewMemoryProductRepository(),
		users:    repository.NewMemoryUserRepository(),
		notifier: &captureNotifier{},
	}
	f.uc = NewOfferUseCase(f.offers, f.products, f.users, f.notifier)

	require.NoError(t, f.users.Upsert(ctx, &entity.User{ID: sellerID, Name: "Sam Seller", Email: "sam@example.com", Phone: "+1 555 0101"}))
	require.NoError(t, f.users.Upsert(ctx, &entity.User{ID: buyerID, Name: "Bea Buyer", Email: "bea@example.com"}))
	require.NoError(t, f.users.Upsert(ctx, &entity.User{ID: strangerID, Name: "Stan", Email: "stan@example.com"}))

	f.product = &entity.Product{
		ID:       "product-1",
		SellerID: sellerID,
		Name:     "Acme Analytics",
		AskValue: decimal.NewFromInt(100000),
		IsActive: true,
	}
	require.NoError(t, f.products.Create(ctx, f.product))

	return f
}

func (f *offerFixture) createOffer(t *testing.T, amount int64) *entity.Offer {
	t.Helper()
	offer, err := f.uc.CreateOffer(context.Background(), buyerID, CreateOfferInput{
		ProductID: f.product.ID,
		Amount:    decimal.NewFromInt(amount),
		Message:   "Interested",
	})
	require.NoError(t, err)
	return offer
}

func TestCreateOffer(t *testing.T) {
	f := newOfferFixture(t)

	offer := f.createOffer(t, 80000)

	assert.NotEmpty(t, offer.ID)
	assert.Equal(t, entity.OfferStatusPending, offer.Status)
	assert.Equal(t, sellerID, offer.SellerID)
	assert.Equal(t, "Acme Analytics", offer.ProductName)

	event := f.notifier.last()
	assert.Equal(t, entity.OfferEventCreated, event.Type)
	assert.Equal(t, sellerID, event.RecipientID)

	logs, err := f.offers.ListLogsByOfferID(context.Background(), offer.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.OfferStatusPending, logs[0].ToStatus)
}

func TestCreateOfferErrors(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateOffer(ctx, sellerID, CreateOfferInput{ProductID: f.product.ID, Amount: decimal.NewFromInt(10)})
	assert.True(t, errors.Is(err, errors.CodeUnauthorized), "self offer: %v", err)

	_, err = f.uc.CreateOffer(ctx, buyerID, CreateOfferInput{ProductID: f.product.ID, Amount: decimal.Zero})
	assert.True(t, errors.Is(err, errors.CodeValidation), "zero amount: %v", err)

	_, err = f.uc.CreateOffer(ctx, buyerID, CreateOfferInput{ProductID: "missing", Amount: decimal.NewFromInt(10)})
	assert.True(t, errors.Is(err, errors.CodeNotFound), "missing product: %v", err)

	_, err = f.uc.CreateOffer(ctx, "no-profile", CreateOfferInput{ProductID: f.product.ID, Amount: decimal.NewFromInt(10)})
	assert.True(t, errors.Is(err, errors.CodeValidation), "missing profile: %v", err)
}

func TestAcceptDisclosesContacts(t *testing.T) {
	f := newOfferFixture(t)
	offer := f.createOffer(t, 80000)

	result, err := f.uc.Accept(context.Background(), offer.ID, sellerID)
	require.NoError(t, err)

	assert.Equal(t, entity.OfferStatusAccepted, result.Offer.Status)
	require.NotNil(t, result.BuyerContact)
	require.NotNil(t, result.SellerContact)
	assert.Equal(t, "bea@example.com", result.BuyerContact.Email)
	assert.Equal(t, "Sam Seller", result.SellerContact.Name)
	assert.Equal(t, "+1 555 0101", result.SellerContact.Phone)

	event := f.notifier.last()
	assert.Equal(t, entity.OfferEventTransitioned, event.Type)
	assert.Equal(t, buyerID, event.RecipientID)
	assert.Equal(t, entity.OfferStatusAccepted, event.Status)
}

func TestRejectHasNoContacts(t *testing.T) {
	f := newOfferFixture(t)
	offer := f.createOffer(t, 80000)

	result, err := f.uc.Reject(context.Background(), offer.ID, sellerID)
	require.NoError(t, err)

	assert.Equal(t, entity.OfferStatusRejected, result.Offer.Status)
	assert.Nil(t, result.BuyerContact)
	assert.Nil(t, result.SellerContact)

	payload, err := json.Marshal(result)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "buyer_contact")
	assert.NotContains(t, string(payload), "bea@example.com")
}

func TestCounterOfferFlow(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()
	offer := f.createOffer(t, 80000)

	countered, err := f.uc.Counter(ctx, offer.ID, sellerID, CounterOfferInput{Amount: decimal.NewFromInt(90000), Message: "Meet me at 90k"})
	require.NoError(t, err)
	assert.Equal(t, entity.OfferStatusCountered, countered.Offer.Status)
	assert.True(t, countered.Offer.Amount.Equal(decimal.NewFromInt(80000)))
	assert.True(t, countered.Offer.CounterAmount.Equal(decimal.NewFromInt(90000)))
	assert.Nil(t, countered.BuyerContact)
	assert.Nil(t, countered.AgreedAmount)
	assert.Equal(t, buyerID, f.notifier.last().RecipientID)

	result, err := f.uc.RespondToCounter(ctx, offer.ID, buyerID, RespondToCounterInput{ResponseType: CounterResponseAccept, Message: "Deal"})
	require.NoError(t, err)
	assert.Equal(t, entity.OfferStatusCounterAccepted, result.Offer.Status)
	assert.Equal(t, "Deal", result.Offer.CounterResponseMessage)
	require.NotNil(t, result.BuyerContact)
	require.NotNil(t, result.SellerContact)
	assert.Equal(t, sellerID, f.notifier.last().RecipientID)

	require.NotNil(t, result.AgreedAmount)
	assert.True(t, result.AgreedAmount.Equal(decimal.NewFromInt(90000)))
}

func TestCounterRejected(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()
	offer := f.createOffer(t, 80000)

	_, err := f.uc.Counter(ctx, offer.ID, sellerID, CounterOfferInput{Amount: decimal.NewFromInt(95000)})
	require.NoError(t, err)

	result, err := f.uc.RespondToCounter(ctx, offer.ID, buyerID, RespondToCounterInput{ResponseType: CounterResponseReject, Message: "Too high"})
	require.NoError(t, err)
	assert.Equal(t, entity.OfferStatusCounterRejected, result.Offer.Status)
	assert.Nil(t, result.BuyerContact)

	_, err = f.uc.RespondToCounter(ctx, offer.ID, buyerID, RespondToCounterInput{ResponseType: CounterResponseAccept})
	assert.True(t, errors.Is(err, errors.CodeInvalidState))
}

func TestTransitionAuthorization(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()
	offer := f.createOffer(t, 80000)

	_, err := f.uc.Accept(ctx, offer.ID, buyerID)
	assert.True(t, errors.Is(err, errors.CodeUnauthorized), "buyer accept: %v", err)

	_, err = f.uc.Reject(ctx, offer.ID, strangerID)
	assert.True(t, errors.Is(err, errors.CodeUnauthorized), "stranger reject: %v", err)

	_, err = f.uc.Counter(ctx, offer.ID, buyerID, CounterOfferInput{Amount: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, errors.CodeUnauthorized), "buyer counter: %v", err)

	_, err = f.uc.Counter(ctx, offer.ID, sellerID, CounterOfferInput{Amount: decimal.NewFromInt(90000)})
	require.NoError(t, err)

	_, err = f.uc.RespondToCounter(ctx, offer.ID, sellerID, RespondToCounterInput{ResponseType: CounterResponseAccept})
	assert.True(t, errors.Is(err, errors.CodeUnauthorized), "seller respond: %v", err)

	stored, err := f.offers.GetByID(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OfferStatusCountered, stored.Status)
}

func TestStrangerOnTerminalOfferIsUnauthorized(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()
	offer := f.createOffer(t, 80000)

	_, err := f.uc.Reject(ctx, offer.ID, sellerID)
	require.NoError(t, err)

	_, err = f.uc.Accept(ctx, offer.ID, strangerID)
	assert.True(t, errors.Is(err, errors.CodeUnauthorized), "got %v", err)
}

func TestTransitionInvalidState(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()
	offer := f.createOffer(t, 80000)

	_, err := f.uc.Accept(ctx, offer.ID, sellerID)
	require.NoError(t, err)

	_, err = f.uc.Accept(ctx, offer.ID, sellerID)
	assert.True(t, errors.Is(err, errors.CodeInvalidState))

	_, err = f.uc.Counter(ctx, offer.ID, sellerID, CounterOfferInput{Amount: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, errors.CodeInvalidState))

	_, err = f.uc.RespondToCounter(ctx, offer.ID, buyerID, RespondToCounterInput{ResponseType: CounterResponseReject})
	assert.True(t, errors.Is(err, errors.CodeInvalidState))
}

func TestTransitionUnknownOffer(t *testing.T) {
	f := newOfferFixture(t)

	_, err := f.uc.Accept(context.Background(), "missing", sellerID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestRespondToCounterRequiresResponseType(t *testing.T) {
	f := newOfferFixture(t)

	_, err := f.uc.RespondToCounter(context.Background(), "any", buyerID, RespondToCounterInput{ResponseType: "maybe"})
	assert.True(t, errors.Is(err, errors.CodeValidation))
}

func TestConcurrentAcceptsExactlyOneWins(t *testing.T) {
	f := newOfferFixture(t)
	offer := f.createOffer(t, 80000)

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Accept(context.Background(), offer.ID, sellerID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, invalid := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, errors.CodeInvalidState):
			invalid++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, invalid)
}

func TestConcurrentCounterAndReject(t *testing.T) {
	f := newOfferFixture(t)
	offer := f.createOffer(t, 80000)
	ctx := context.Background()

	var wg sync.WaitGroup
	var counterErr, rejectErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, counterErr = f.uc.Counter(ctx, offer.ID, sellerID, CounterOfferInput{Amount: decimal.NewFromInt(90000)})
	}()
	go func() {
		defer wg.Done()
		_, rejectErr = f.uc.Reject(ctx, offer.ID, sellerID)
	}()
	wg.Wait()

	assert.True(t, (counterErr == nil) != (rejectErr == nil), "counter=%v reject=%v", counterErr, rejectErr)

	stored, err := f.offers.GetByID(ctx, offer.ID)
	require.NoError(t, err)
	if counterErr == nil {
		assert.Equal(t, entity.OfferStatusCountered, stored.Status)
		assert.True(t, errors.Is(rejectErr, errors.CodeInvalidState))
	} else {
		assert.Equal(t, entity.OfferStatusRejected, stored.Status)
		assert.True(t, errors.Is(counterErr, errors.CodeInvalidState))
	}
}

func TestGetOfferVisibility(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()
	offer := f.createOffer(t, 80000)

	got, err := f.uc.GetOffer(ctx, offer.ID, buyerID)
	require.NoError(t, err)
	assert.Equal(t, offer.ID, got.ID)

	_, err = f.uc.GetOffer(ctx, offer.ID, sellerID)
	require.NoError(t, err)

	_, err = f.uc.GetOffer(ctx, offer.ID, strangerID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestHistoryRecordsTransitionsInOrder(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()
	offer := f.createOffer(t, 80000)

	_, err := f.uc.Counter(ctx, offer.ID, sellerID, CounterOfferInput{Amount: decimal.NewFromInt(90000), Message: "90k"})
	require.NoError(t, err)
	_, err = f.uc.RespondToCounter(ctx, offer.ID, buyerID, RespondToCounterInput{ResponseType: CounterResponseAccept})
	require.NoError(t, err)

	logs, err := f.uc.History(ctx, offer.ID, buyerID)
	require.NoError(t, err)
	require.Len(t, logs, 3)

	assert.Equal(t, entity.OfferStatus(""), logs[0].FromStatus)
	assert.Equal(t, entity.OfferStatusPending, logs[0].ToStatus)
	assert.Equal(t, entity.OfferStatusPending, logs[1].FromStatus)
	assert.Equal(t, entity.OfferStatusCountered, logs[1].ToStatus)
	assert.Equal(t, sellerID, logs[1].ActorID)
	assert.Equal(t, "90k", logs[1].Note)
	assert.Equal(t, entity.OfferStatusCounterAccepted, logs[2].ToStatus)
	assert.Equal(t, buyerID, logs[2].ActorID)

	_, err = f.uc.History(ctx, offer.ID, strangerID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestListReceivedAndSent(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()

	first := f.createOffer(t, 70000)
	second := f.createOffer(t, 75000)
	_, err := f.uc.Reject(ctx, first.ID, sellerID)
	require.NoError(t, err)

	received, total, err := f.uc.ListReceived(ctx, sellerID, ListOffersInput{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, received, 2)
	assert.True(t, !received[0].CreatedAt.Before(received[1].CreatedAt))

	sent, total, err := f.uc.ListSent(ctx, buyerID, ListOffersInput{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, sent, 2)

	pending, total, err := f.uc.ListSent(ctx, buyerID, ListOffersInput{Status: entity.OfferStatusPending, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	none, total, err := f.uc.ListReceived(ctx, buyerID, ListOffersInput{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)

	_, _, err = f.uc.ListSent(ctx, buyerID, ListOffersInput{Status: "bogus"})
	assert.True(t, errors.Is(err, errors.CodeValidation))
}

func TestListPagination(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		f.createOffer(t, int64(1000+i))
	}

	page1, total, err := f.uc.ListSent(ctx, buyerID, ListOffersInput{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page1, 2)

	page3, _, err := f.uc.ListSent(ctx, buyerID, ListOffersInput{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page3, 1)

	seen := map[string]bool{}
	for page := 1; page <= 3; page++ {
		items, _, err := f.uc.ListSent(ctx, buyerID, ListOffersInput{Page: page, PageSize: 2})
		require.NoError(t, err)
		for _, o := range items {
			assert.False(t, seen[o.ID], "offer %s listed twice", o.ID)
			seen[o.ID] = true
		}
	}
	assert.Len(t, seen, 5)
}

func TestListForProductOwnerOnly(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()
	f.createOffer(t, 80000)

	offers, total, err := f.uc.ListForProduct(ctx, f.product.ID, sellerID, ListOffersInput{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, offers, 1)

	_, _, err = f.uc.ListForProduct(ctx, f.product.ID, buyerID, ListOffersInput{Page: 1, PageSize: 20})
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	_, _, err = f.uc.ListForProduct(ctx, "missing", sellerID, ListOffersInput{Page: 1, PageSize: 20})
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestListingsNeverCarryContacts(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()
	offer := f.createOffer(t, 80000)

	_, err := f.uc.Accept(ctx, offer.ID, sellerID)
	require.NoError(t, err)

	received, _, err := f.uc.ListReceived(ctx, sellerID, ListOffersInput{Page: 1, PageSize: 20})
	require.NoError(t, err)

	payload, err := json.Marshal(received)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "bea@example.com")
	assert.NotContains(t, string(payload), "sam@example.com")
	assert.NotContains(t, string(payload), "contact")

	detail, err := f.uc.GetOffer(ctx, offer.ID, buyerID)
	require.NoError(t, err)
	payload, err = json.Marshal(detail)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "contact")
}

func TestListOffersHugePageIsEmpty(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()
	f.createOffer(t, 1000)

	for _, page := range []int{1 << 62, 1<<61 + 1} {
		offers, total, err := f.uc.ListSent(ctx, buyerID, ListOffersInput{Page: page, PageSize: 100})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Empty(t, offers)
	}
}
