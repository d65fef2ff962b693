package grpcsvc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName — полное имя gRPC-сервиса витрины.
const ServiceName = "storefront.v1.StorefrontService"

// Имена методов StorefrontService.
const (
	MethodListProducts       = "ListProducts"
	MethodGetProduct         = "GetProduct"
	MethodAddToCart          = "AddToCart"
	MethodRemoveFromCart     = "RemoveFromCart"
	MethodSetQuantity        = "SetQuantity"
	MethodClearCart          = "ClearCart"
	MethodGetCart            = "GetCart"
	MethodSetCurrency        = "SetCurrency"
	MethodListCurrencies     = "ListCurrencies"
	MethodSetAddress         = "SetAddress"
	MethodListSavedAddresses = "ListSavedAddresses"
	MethodSelectSavedAddress = "SelectSavedAddress"
	MethodCheckout           = "Checkout"
	MethodTrackOrder         = "TrackOrder"
	MethodAddToWishlist      = "AddToWishlist"
	MethodRemoveFromWishlist = "RemoveFromWishlist"
	MethodGetWishlist        = "GetWishlist"
	MethodMoveToCart         = "MoveToCart"
)

// StorefrontServer — серверная часть StorefrontService. Запросы и ответы
// передаются как google.protobuf.Struct, поэтому сгенерированный код не нужен.
type StorefrontServer interface {
	ListProducts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddToCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveFromCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetQuantity(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClearCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetCurrency(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCurrencies(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetAddress(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSavedAddresses(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SelectSavedAddress(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Checkout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TrackOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddToWishlist(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveFromWishlist(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetWishlist(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MoveToCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(StorefrontServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(StorefrontServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(StorefrontServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// StorefrontServiceDesc описывает StorefrontService для grpc.Server.
var StorefrontServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StorefrontServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(MethodListProducts, StorefrontServer.ListProducts),
		unaryMethod(MethodGetProduct, StorefrontServer.GetProduct),
		unaryMethod(MethodAddToCart, StorefrontServer.AddToCart),
		unaryMethod(MethodRemoveFromCart, StorefrontServer.RemoveFromCart),
		unaryMethod(MethodSetQuantity, StorefrontServer.SetQuantity),
		unaryMethod(MethodClearCart, StorefrontServer.ClearCart),
		unaryMethod(MethodGetCart, StorefrontServer.GetCart),
		unaryMethod(MethodSetCurrency, StorefrontServer.SetCurrency),
		unaryMethod(MethodListCurrencies, StorefrontServer.ListCurrencies),
		unaryMethod(MethodSetAddress, StorefrontServer.SetAddress),
		unaryMethod(MethodListSavedAddresses, StorefrontServer.ListSavedAddresses),
		unaryMethod(MethodSelectSavedAddress, StorefrontServer.SelectSavedAddress),
		unaryMethod(MethodCheckout, StorefrontServer.Checkout),
		unaryMethod(MethodTrackOrder, StorefrontServer.TrackOrder),
		unaryMethod(MethodAddToWishlist, StorefrontServer.AddToWishlist),
		unaryMethod(MethodRemoveFromWishlist, StorefrontServer.RemoveFromWishlist),
		unaryMethod(MethodGetWishlist, StorefrontServer.GetWishlist),
		unaryMethod(MethodMoveToCart, StorefrontServer.MoveToCart),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/v1/storefront_service.proto",
}

// RegisterStorefrontServer регистрирует реализацию на gRPC-сервере.
func RegisterStorefrontServer(s grpc.ServiceRegistrar, srv StorefrontServer) {
	s.RegisterService(&StorefrontServiceDesc, srv)
}
