// Package grpcsvc публикует витрину через gRPC: каталог, корзину, избранное,
// валюту отображения и оформление заказа.
package grpcsvc

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/pricing"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	"github.com/vladislavdragonenkov/storefront/internal/service/session"
)

// Ключи метаданных запроса.
const (
	SessionHeader = "x-session-id"
	UserHeader    = "x-user-id"
)

// Фильтры ListProducts.
const (
	FilterAll        = "all"
	FilterTopSellers = "top_sellers"
	FilterOnSale     = "on_sale"
)

// StorefrontService реализует StorefrontServer поверх реестра сессий.
type StorefrontService struct {
	catalog  domain.ProductCatalog
	users    domain.UserDirectory
	sessions *session.Registry
	rates    *pricing.Table
	timeline domain.TimelineRepository
	logger   *log.Entry
}

// NewStorefrontService конструирует сервис. users может быть nil — тогда все
// запросы обслуживаются как гостевые.
func NewStorefrontService(
	catalog domain.ProductCatalog,
	users domain.UserDirectory,
	sessions *session.Registry,
	rates *pricing.Table,
	timeline domain.TimelineRepository,
	logger *log.Entry,
) *StorefrontService {
	if logger == nil {
		logger = log.New().WithField("component", "storefront-service")
	}
	if rates == nil {
		rates = pricing.DefaultTable()
	}
	return &StorefrontService{
		catalog:  catalog,
		users:    users,
		sessions: sessions,
		rates:    rates,
		timeline: timeline,
		logger:   logger,
	}
}

func (s *StorefrontService) ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var (
		products []domain.Product
		err      error
	)
	category := stringField(req, "category")
	switch filter := stringField(req, "filter"); {
	case category != "":
		products, err = s.catalog.ByCategory(ctx, category)
	case filter == "" || filter == FilterAll:
		products, err = s.catalog.List(ctx)
	case filter == FilterTopSellers:
		products, err = s.catalog.TopSellers(ctx)
	case filter == FilterOnSale:
		products, err = s.catalog.OnSale(ctx)
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown filter %q", filter)
	}
	if err != nil {
		return nil, toStatus(s.logger, MethodListProducts, err)
	}

	currency := s.displayCurrency(ctx)
	return newStruct(map[string]any{
		"products": productList(products, s.rates, currency),
		"currency": currency,
	})
}

func (s *StorefrontService) GetProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredString(req, "product_id")
	if err != nil {
		return nil, err
	}
	product, err := s.catalog.Get(ctx, id)
	if err != nil {
		return nil, toStatus(s.logger, MethodGetProduct, err)
	}
	return newStruct(map[string]any{
		"product": productView(product, s.rates, s.displayCurrency(ctx)),
	})
}

func (s *StorefrontService) AddToCart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, product, err := s.sessionAndProduct(ctx, req, MethodAddToCart)
	if err != nil {
		return nil, err
	}
	sess.Cart.Add(product)
	return s.cartResponse(sess)
}

func (s *StorefrontService) RemoveFromCart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(ctx, MethodRemoveFromCart)
	if err != nil {
		return nil, err
	}
	id, err := requiredString(req, "product_id")
	if err != nil {
		return nil, err
	}
	sess.Cart.Remove(id)
	return s.cartResponse(sess)
}

// SetQuantity с quantity <= 0 удаляет позицию; неизвестный товар игнорируется.
func (s *StorefrontService) SetQuantity(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(ctx, MethodSetQuantity)
	if err != nil {
		return nil, err
	}
	id, err := requiredString(req, "product_id")
	if err != nil {
		return nil, err
	}
	quantity, err := intField(req, "quantity")
	if err != nil {
		return nil, err
	}
	sess.Cart.SetQuantity(id, quantity)
	return s.cartResponse(sess)
}

func (s *StorefrontService) ClearCart(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(ctx, MethodClearCart)
	if err != nil {
		return nil, err
	}
	sess.Cart.Clear()
	return s.cartResponse(sess)
}

func (s *StorefrontService) GetCart(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(ctx, MethodGetCart)
	if err != nil {
		return nil, err
	}
	return s.cartResponse(sess)
}

func (s *StorefrontService) SetCurrency(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(ctx, MethodSetCurrency)
	if err != nil {
		return nil, err
	}
	code, err := requiredString(req, "currency")
	if err != nil {
		return nil, err
	}
	if err := sess.SetCurrency(code); err != nil {
		return nil, toStatus(s.logger, MethodSetCurrency, err)
	}
	return newStruct(map[string]any{"currency": sess.Currency()})
}

func (s *StorefrontService) ListCurrencies(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	currencies := s.rates.Currencies()
	list := make([]any, 0, len(currencies))
	for _, c := range currencies {
		list = append(list, currencyView(c))
	}
	return newStruct(map[string]any{
		"currencies": list,
		"base":       s.rates.Base(),
		"selected":   s.displayCurrency(ctx),
	})
}

func (s *StorefrontService) SetAddress(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(ctx, MethodSetAddress)
	if err != nil {
		return nil, err
	}
	address := addressFromStruct(req)
	sess.Checkout.SetAddress(address)
	return newStruct(map[string]any{
		"address":  addressView(address),
		"complete": address.Complete(),
	})
}

// ListSavedAddresses возвращает адреса профиля; гость получает пустой список.
func (s *StorefrontService) ListSavedAddresses(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	sess, user, err := s.sessionAndUser(ctx, MethodListSavedAddresses)
	if err != nil {
		return nil, err
	}
	addresses, err := sess.Checkout.SavedAddresses(ctx, user)
	if err != nil {
		return nil, toStatus(s.logger, MethodListSavedAddresses, err)
	}

	list := make([]any, 0, len(addresses))
	for _, a := range addresses {
		list = append(list, savedAddressView(a))
	}
	return newStruct(map[string]any{
		"addresses": list,
		"form":      addressView(sess.Checkout.Address()),
	})
}

func (s *StorefrontService) SelectSavedAddress(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, user, err := s.sessionAndUser(ctx, MethodSelectSavedAddress)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, status.Errorf(codes.Unauthenticated, "%s metadata is required", UserHeader)
	}
	id, err := requiredString(req, "address_id")
	if err != nil {
		return nil, err
	}

	found, err := sess.Checkout.SelectSavedAddress(ctx, user, id)
	if err != nil {
		return nil, toStatus(s.logger, MethodSelectSavedAddress, err)
	}
	if !found {
		return nil, toStatus(s.logger, MethodSelectSavedAddress, domain.ErrAddressNotFound)
	}
	return newStruct(map[string]any{"form": addressView(sess.Checkout.Address())})
}

// Checkout выполняет submit в валюте отображения сессии. Пока он идёт,
// повторный вызов той же сессии получает codes.Aborted.
func (s *StorefrontService) Checkout(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	sess, user, err := s.sessionAndUser(ctx, MethodCheckout)
	if err != nil {
		return nil, err
	}

	result, err := sess.Checkout.Submit(ctx, user, sess.Currency())
	if err != nil {
		return nil, toStatus(s.logger, MethodCheckout, err)
	}

	return newStruct(map[string]any{
		"order_id":      result.OrderID,
		"state":         string(result.State),
		"address_saved": result.AddressSaved,
		"total":         totalView(result.Total),
		"completed_at":  result.Completed.UTC().Format(time.RFC3339Nano),
	})
}

func (s *StorefrontService) TrackOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	orderID, err := requiredString(req, "order_id")
	if err != nil {
		return nil, err
	}
	events, err := checkout.TrackOrder(ctx, s.timeline, orderID)
	if err != nil {
		return nil, toStatus(s.logger, MethodTrackOrder, err)
	}
	return newStruct(map[string]any{
		"order_id": orderID,
		"status":   orderStatus(events),
		"events":   timelineView(events),
	})
}

func (s *StorefrontService) AddToWishlist(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, product, err := s.sessionAndProduct(ctx, req, MethodAddToWishlist)
	if err != nil {
		return nil, err
	}
	sess.Wishlist.Add(product)
	return s.wishlistResponse(sess)
}

func (s *StorefrontService) RemoveFromWishlist(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(ctx, MethodRemoveFromWishlist)
	if err != nil {
		return nil, err
	}
	id, err := requiredString(req, "product_id")
	if err != nil {
		return nil, err
	}
	sess.Wishlist.Remove(id)
	return s.wishlistResponse(sess)
}

func (s *StorefrontService) GetWishlist(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(ctx, MethodGetWishlist)
	if err != nil {
		return nil, err
	}
	return s.wishlistResponse(sess)
}

func (s *StorefrontService) MoveToCart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(ctx, MethodMoveToCart)
	if err != nil {
		return nil, err
	}
	id, err := requiredString(req, "product_id")
	if err != nil {
		return nil, err
	}
	moved := sess.Wishlist.MoveToCart(id, sess.Cart)
	return newStruct(map[string]any{
		"moved":          moved,
		"cart_count":     sess.Cart.Count(),
		"wishlist_count": len(sess.Wishlist.Items()),
	})
}

func (s *StorefrontService) session(ctx context.Context, method string) (*session.Session, error) {
	sess, err := s.sessions.Get(incomingValue(ctx, SessionHeader))
	if err != nil {
		return nil, toStatus(s.logger, method, err)
	}
	return sess, nil
}

func (s *StorefrontService) sessionAndUser(ctx context.Context, method string) (*session.Session, *domain.User, error) {
	sess, err := s.session(ctx, method)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.identity(ctx)
	if err != nil {
		return nil, nil, toStatus(s.logger, method, err)
	}
	return sess, user, nil
}

func (s *StorefrontService) sessionAndProduct(ctx context.Context, req *structpb.Struct, method string) (*session.Session, domain.Product, error) {
	sess, err := s.session(ctx, method)
	if err != nil {
		return nil, domain.Product{}, err
	}
	id, err := requiredString(req, "product_id")
	if err != nil {
		return nil, domain.Product{}, err
	}
	product, err := s.catalog.Get(ctx, id)
	if err != nil {
		return nil, domain.Product{}, toStatus(s.logger, method, err)
	}
	return sess, product, nil
}

// identity возвращает пользователя из x-user-id; без заголовка запрос гостевой.
func (s *StorefrontService) identity(ctx context.Context) (*domain.User, error) {
	id := incomingValue(ctx, UserHeader)
	if id == "" || s.users == nil {
		return nil, nil
	}
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// displayCurrency — валюта сессии или базовая, если сессии нет.
func (s *StorefrontService) displayCurrency(ctx context.Context) string {
	id := incomingValue(ctx, SessionHeader)
	if id == "" {
		return s.rates.Base()
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		return s.rates.Base()
	}
	return sess.Currency()
}

func (s *StorefrontService) cartResponse(sess *session.Session) (*structpb.Struct, error) {
	currency := sess.Currency()
	items := sess.Cart.Items()
	list := make([]any, 0, len(items))
	for _, item := range items {
		list = append(list, lineItemView(item, s.rates, currency))
	}
	return newStruct(map[string]any{
		"items":          list,
		"count":          sess.Cart.Count(),
		"total":          totalView(sess.Checkout.Quote(currency)),
		"checkout_state": string(sess.Checkout.State()),
	})
}

func (s *StorefrontService) wishlistResponse(sess *session.Session) (*structpb.Struct, error) {
	items := sess.Wishlist.Items()
	return newStruct(map[string]any{
		"items": productList(items, s.rates, sess.Currency()),
		"count": len(items),
	})
}

// orderStatus сводит timeline к статусу для страницы отслеживания.
func orderStatus(events []domain.TimelineEvent) string {
	for i := len(events) - 1; i >= 0; i-- {
		switch events[i].Type {
		case domain.TimelineCheckoutCompleted:
			return string(domain.CheckoutStateSuccess)
		case domain.TimelineCheckoutFailed:
			return string(domain.CheckoutStateFailed)
		}
	}
	return string(domain.CheckoutStateSubmitting)
}

func incomingValue(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(key)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

var _ StorefrontServer = (*StorefrontService)(nil)
