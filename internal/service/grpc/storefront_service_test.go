package grpcsvc_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/pricing"
	grpcsvc "github.com/vladislavdragonenkov/storefront/internal/service/grpc"
	"github.com/vladislavdragonenkov/storefront/internal/service/payment"
	"github.com/vladislavdragonenkov/storefront/internal/service/session"
	"github.com/vladislavdragonenkov/storefront/internal/shipping"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

const bufSize = 1024 * 1024

type testEnv struct {
	client   *grpcsvc.Client
	sessions *session.Registry
	payments *payment.MockService
}

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

func newTestServer(t *testing.T, paymentLatency time.Duration) *testEnv {
	t.Helper()

	logger := loggerForTests()
	rates := pricing.DefaultTable()
	users := memory.NewUserDirectory(memory.SeedUsers())
	timeline := memory.NewTimelineRepository()
	payments := payment.NewMockServiceWithLatency(paymentLatency)

	registry, err := session.NewRegistry(session.Dependencies{
		Rates:     rates,
		Shipping:  shipping.DefaultPolicy(),
		Addresses: memory.NewAddressRepository(users),
		Payments:  payments,
		Timeline:  timeline,
		Logger:    logger,
	}, session.Config{})
	require.NoError(t, err)

	service := grpcsvc.NewStorefrontService(
		memory.NewProductCatalog(memory.SeedProducts()),
		users,
		registry,
		rates,
		timeline,
		logger,
	)

	listener := bufconn.Listen(bufSize)
	server := grpc.NewServer()
	grpcsvc.RegisterStorefrontServer(server, service)
	go func() {
		_ = server.Serve(listener)
	}()

	dialer := func(context.Context, string) (net.Conn, error) {
		return listener.Dial()
	}
	//nolint:staticcheck // grpc.Dial is required for bufconn testing
	conn, err := grpc.Dial("bufnet", grpc.WithContextDialer(dialer), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		server.Stop()
	})

	return &testEnv{
		client:   grpcsvc.NewClient(conn),
		sessions: registry,
		payments: payments,
	}
}

func completeAddress() map[string]any {
	return map[string]any{
		"country":   "IN",
		"state":     "KA",
		"zip_code":  "560001",
		"full_name": "John Doe",
		"street":    "1 MG Road",
		"city":      "Bengaluru",
		"phone":     "+910000000000",
	}
}

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected grpc status, got %v", err)
	require.Equal(t, code, st.Code(), st.Message())
}

func TestListProducts_Filters(t *testing.T) {
	env := newTestServer(t, 0)
	ctx := context.Background()

	all, err := env.client.Call(ctx, grpcsvc.MethodListProducts, nil)
	require.NoError(t, err)
	assert.Len(t, all["products"], 5)
	assert.Equal(t, "USD", all["currency"])

	top, err := env.client.Call(ctx, grpcsvc.MethodListProducts, map[string]any{"filter": grpcsvc.FilterTopSellers})
	require.NoError(t, err)
	assert.Len(t, top["products"], 3)

	sale, err := env.client.Call(ctx, grpcsvc.MethodListProducts, map[string]any{"filter": grpcsvc.FilterOnSale})
	require.NoError(t, err)
	assert.Len(t, sale["products"], 2)

	hoodies, err := env.client.Call(ctx, grpcsvc.MethodListProducts, map[string]any{"category": domain.CategoryHoodies})
	require.NoError(t, err)
	assert.Len(t, hoodies["products"], 1)

	_, err = env.client.Call(ctx, grpcsvc.MethodListProducts, map[string]any{"filter": "cheapest"})
	requireCode(t, err, codes.InvalidArgument)
}

func TestGetProduct_PricedInSessionCurrency(t *testing.T) {
	env := newTestServer(t, 0)
	ctx := grpcsvc.WithSession(context.Background(), "s-price", "")

	resp, err := env.client.Call(ctx, grpcsvc.MethodGetProduct, map[string]any{"product_id": "1"})
	require.NoError(t, err)
	product := resp["product"].(map[string]any)
	assert.Equal(t, "INR", product["currency"])
	assert.Equal(t, "19.99", product["price_usd"])
	assert.Equal(t, "1658.57", product["price"])
	assert.Contains(t, product["price_formatted"], "₹")

	_, err = env.client.Call(ctx, grpcsvc.MethodGetProduct, map[string]any{"product_id": "404"})
	requireCode(t, err, codes.NotFound)

	_, err = env.client.Call(ctx, grpcsvc.MethodGetProduct, nil)
	requireCode(t, err, codes.InvalidArgument)
}

func TestCart_RequiresSession(t *testing.T) {
	env := newTestServer(t, 0)

	_, err := env.client.Call(context.Background(), grpcsvc.MethodGetCart, nil)
	requireCode(t, err, codes.InvalidArgument)
}

func TestCart_MutationsAndTotals(t *testing.T) {
	env := newTestServer(t, 0)
	ctx := grpcsvc.WithSession(context.Background(), "s-cart", "")

	_, err := env.client.Call(ctx, grpcsvc.MethodSetCurrency, map[string]any{"currency": "usd"})
	require.NoError(t, err)

	_, err = env.client.Call(ctx, grpcsvc.MethodAddToCart, map[string]any{"product_id": "1"})
	require.NoError(t, err)
	cart, err := env.client.Call(ctx, grpcsvc.MethodAddToCart, map[string]any{"product_id": "1"})
	require.NoError(t, err)

	assert.Equal(t, float64(2), cart["count"])
	total := cart["total"].(map[string]any)
	assert.Equal(t, "$39.98", total["subtotal_formatted"])
	assert.Equal(t, "$10.00", total["shipping_formatted"])
	assert.Equal(t, "$49.98", total["total_formatted"])

	cart, err = env.client.Call(ctx, grpcsvc.MethodSetQuantity, map[string]any{"product_id": "1", "quantity": 3})
	require.NoError(t, err)
	total = cart["total"].(map[string]any)
	assert.Equal(t, "$59.97", total["subtotal_formatted"])
	assert.Equal(t, "$0.00", total["shipping_formatted"])

	_, err = env.client.Call(ctx, grpcsvc.MethodSetQuantity, map[string]any{"product_id": "1", "quantity": 1.5})
	requireCode(t, err, codes.InvalidArgument)

	cart, err = env.client.Call(ctx, grpcsvc.MethodRemoveFromCart, map[string]any{"product_id": "1"})
	require.NoError(t, err)
	assert.Equal(t, float64(0), cart["count"])

	_, err = env.client.Call(ctx, grpcsvc.MethodAddToCart, map[string]any{"product_id": "404"})
	requireCode(t, err, codes.NotFound)
}

func TestSetCurrency_RejectsUnknown(t *testing.T) {
	env := newTestServer(t, 0)
	ctx := grpcsvc.WithSession(context.Background(), "s-cur", "")

	_, err := env.client.Call(ctx, grpcsvc.MethodSetCurrency, map[string]any{"currency": "JPY"})
	requireCode(t, err, codes.InvalidArgument)

	resp, err := env.client.Call(ctx, grpcsvc.MethodListCurrencies, nil)
	require.NoError(t, err)
	assert.Equal(t, "USD", resp["base"])
	assert.Equal(t, "INR", resp["selected"])
	assert.Len(t, resp["currencies"], 4)
}

func TestCheckout_IdentifiedUserEndToEnd(t *testing.T) {
	env := newTestServer(t, 0)
	ctx := grpcsvc.WithSession(context.Background(), "s-checkout", "1")

	_, err := env.client.Call(ctx, grpcsvc.MethodCheckout, nil)
	requireCode(t, err, codes.FailedPrecondition)

	_, err = env.client.Call(ctx, grpcsvc.MethodSetCurrency, map[string]any{"currency": "USD"})
	require.NoError(t, err)
	_, err = env.client.Call(ctx, grpcsvc.MethodAddToCart, map[string]any{"product_id": "2"})
	require.NoError(t, err)
	_, err = env.client.Call(ctx, grpcsvc.MethodAddToCart, map[string]any{"product_id": "1"})
	require.NoError(t, err)

	_, err = env.client.Call(ctx, grpcsvc.MethodCheckout, nil)
	requireCode(t, err, codes.FailedPrecondition)

	form, err := env.client.Call(ctx, grpcsvc.MethodSetAddress, map[string]any{"address": completeAddress()})
	require.NoError(t, err)
	assert.Equal(t, true, form["complete"])

	result, err := env.client.Call(ctx, grpcsvc.MethodCheckout, nil)
	require.NoError(t, err)
	assert.Equal(t, string(domain.CheckoutStateSuccess), result["state"])
	assert.Equal(t, true, result["address_saved"])
	assert.Equal(t, "$69.98", result["total"].(map[string]any)["total_formatted"])

	cart, err := env.client.Call(ctx, grpcsvc.MethodGetCart, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(0), cart["count"])

	saved, err := env.client.Call(ctx, grpcsvc.MethodListSavedAddresses, nil)
	require.NoError(t, err)
	addresses := saved["addresses"].([]any)
	require.Len(t, addresses, 1)
	assert.Equal(t, true, addresses[0].(map[string]any)["is_default"])

	tracked, err := env.client.Call(context.Background(), grpcsvc.MethodTrackOrder, map[string]any{"order_id": result["order_id"]})
	require.NoError(t, err)
	assert.Equal(t, string(domain.CheckoutStateSuccess), tracked["status"])
	events := tracked["events"].([]any)
	assert.Equal(t, domain.TimelineCheckoutStarted, events[0].(map[string]any)["type"])
	assert.Equal(t, domain.TimelineCheckoutCompleted, events[len(events)-1].(map[string]any)["type"])
}

func TestCheckout_UnknownUserIsUnauthenticated(t *testing.T) {
	env := newTestServer(t, 0)
	ctx := grpcsvc.WithSession(context.Background(), "s-ghost", "ghost")

	_, err := env.client.Call(ctx, grpcsvc.MethodCheckout, nil)
	requireCode(t, err, codes.Unauthenticated)
}

func TestCheckout_ConcurrentSubmitIsAborted(t *testing.T) {
	env := newTestServer(t, 300*time.Millisecond)
	ctx := grpcsvc.WithSession(context.Background(), "s-race", "")

	_, err := env.client.Call(ctx, grpcsvc.MethodAddToCart, map[string]any{"product_id": "3"})
	require.NoError(t, err)
	_, err = env.client.Call(ctx, grpcsvc.MethodSetAddress, completeAddress())
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		firstErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = env.client.Call(ctx, grpcsvc.MethodCheckout, nil)
	}()

	sess, err := env.sessions.Get("s-race")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return sess.Checkout.State() == domain.CheckoutStateSubmitting
	}, time.Second, 5*time.Millisecond)

	_, err = env.client.Call(ctx, grpcsvc.MethodCheckout, nil)
	requireCode(t, err, codes.Aborted)

	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, 1, env.payments.Calls())
}

func TestCheckout_DeclinedPaymentKeepsCart(t *testing.T) {
	env := newTestServer(t, 0)
	env.payments.Status = domain.PaymentStatusDeclined
	ctx := grpcsvc.WithSession(context.Background(), "s-declined", "")

	_, err := env.client.Call(ctx, grpcsvc.MethodAddToCart, map[string]any{"product_id": "5"})
	require.NoError(t, err)
	_, err = env.client.Call(ctx, grpcsvc.MethodSetAddress, completeAddress())
	require.NoError(t, err)

	_, err = env.client.Call(ctx, grpcsvc.MethodCheckout, nil)
	requireCode(t, err, codes.FailedPrecondition)

	cart, err := env.client.Call(ctx, grpcsvc.MethodGetCart, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(1), cart["count"])
	assert.Equal(t, string(domain.CheckoutStateIdle), cart["checkout_state"])
}

func TestSavedAddresses_SelectRequiresIdentity(t *testing.T) {
	env := newTestServer(t, 0)

	guest := grpcsvc.WithSession(context.Background(), "s-guest", "")
	resp, err := env.client.Call(guest, grpcsvc.MethodListSavedAddresses, nil)
	require.NoError(t, err)
	assert.Empty(t, resp["addresses"])

	_, err = env.client.Call(guest, grpcsvc.MethodSelectSavedAddress, map[string]any{"address_id": "x"})
	requireCode(t, err, codes.Unauthenticated)

	user := grpcsvc.WithSession(context.Background(), "s-user", "1")
	_, err = env.client.Call(user, grpcsvc.MethodSelectSavedAddress, map[string]any{"address_id": "missing"})
	requireCode(t, err, codes.NotFound)
}

func TestTrackOrder_Unknown(t *testing.T) {
	env := newTestServer(t, 0)

	_, err := env.client.Call(context.Background(), grpcsvc.MethodTrackOrder, map[string]any{"order_id": "nope"})
	requireCode(t, err, codes.NotFound)
}

func TestWishlist_MoveToCart(t *testing.T) {
	env := newTestServer(t, 0)
	ctx := grpcsvc.WithSession(context.Background(), "s-wish", "")

	_, err := env.client.Call(ctx, grpcsvc.MethodAddToWishlist, map[string]any{"product_id": "2"})
	require.NoError(t, err)
	wishlist, err := env.client.Call(ctx, grpcsvc.MethodAddToWishlist, map[string]any{"product_id": "2"})
	require.NoError(t, err)
	assert.Equal(t, float64(1), wishlist["count"])

	moved, err := env.client.Call(ctx, grpcsvc.MethodMoveToCart, map[string]any{"product_id": "2"})
	require.NoError(t, err)
	assert.Equal(t, true, moved["moved"])
	assert.Equal(t, float64(1), moved["cart_count"])
	assert.Equal(t, float64(0), moved["wishlist_count"])

	again, err := env.client.Call(ctx, grpcsvc.MethodMoveToCart, map[string]any{"product_id": "2"})
	require.NoError(t, err)
	assert.Equal(t, false, again["moved"])

	_, err = env.client.Call(ctx, grpcsvc.MethodAddToWishlist, map[string]any{"product_id": "4"})
	require.NoError(t, err)
	wishlist, err = env.client.Call(ctx, grpcsvc.MethodRemoveFromWishlist, map[string]any{"product_id": "4"})
	require.NoError(t, err)
	assert.Equal(t, float64(0), wishlist["count"])
}
