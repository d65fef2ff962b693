package grpcsvc

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/pricing"
)

func stringField(req *structpb.Struct, name string) string {
	return strings.TrimSpace(req.GetFields()[name].GetStringValue())
}

func requiredString(req *structpb.Struct, name string) (string, error) {
	v := stringField(req, name)
	if v == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	return v, nil
}

func intField(req *structpb.Struct, name string) (int, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer", name)
	}
	return int(n.NumberValue), nil
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func money(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

func productView(p domain.Product, rates *pricing.Table, currency string) map[string]any {
	price := rates.FromBase(p.PriceUSD, currency)
	view := map[string]any{
		"id":              p.ID,
		"name":            p.Name,
		"description":     p.Description,
		"price_usd":       money(p.PriceUSD),
		"price":           money(price),
		"price_formatted": rates.Format(price, currency),
		"currency":        currency,
		"image":           p.Image,
		"category":        p.Category,
		"is_top_seller":   p.IsTopSeller,
		"is_sale":         p.IsSale,
		"stock":           p.Stock,
	}
	if p.OriginalPriceUSD.Valid {
		original := rates.FromBase(p.OriginalPriceUSD.Decimal, currency)
		view["original_price_usd"] = money(p.OriginalPriceUSD.Decimal)
		view["original_price_formatted"] = rates.Format(original, currency)
	}
	return view
}

func productList(products []domain.Product, rates *pricing.Table, currency string) []any {
	list := make([]any, 0, len(products))
	for _, p := range products {
		list = append(list, productView(p, rates, currency))
	}
	return list
}

func lineItemView(item domain.CartLineItem, rates *pricing.Table, currency string) map[string]any {
	unit := rates.FromBase(item.UnitPriceUSD, currency)
	line := rates.FromBase(item.LineTotalUSD(), currency)
	return map[string]any{
		"product_id":           item.ProductID,
		"name":                 item.Name,
		"unit_price_usd":       money(item.UnitPriceUSD),
		"unit_price_formatted": rates.Format(unit, currency),
		"quantity":             item.Quantity,
		"line_total_formatted": rates.Format(line, currency),
		"image":                item.ImageRef,
	}
}

func totalView(t domain.OrderTotal) map[string]any {
	return map[string]any{
		"currency":           t.Currency,
		"subtotal":           money(t.Subtotal),
		"shipping":           money(t.Shipping),
		"total":              money(t.Total),
		"subtotal_formatted": t.SubtotalFormatted,
		"shipping_formatted": t.ShippingFormatted,
		"total_formatted":    t.TotalFormatted,
		"subtotal_usd":       money(t.SubtotalUSD),
		"shipping_usd":       money(t.ShippingUSD),
		"total_usd":          money(t.TotalUSD),
	}
}

func currencyView(c domain.Currency) map[string]any {
	return map[string]any{
		"code":   c.Code,
		"symbol": c.Symbol,
		"name":   c.Name,
		"rate":   c.Rate.String(),
	}
}

func addressView(a domain.ShippingAddress) map[string]any {
	return map[string]any{
		"country":   a.Country,
		"state":     a.State,
		"zip_code":  a.ZipCode,
		"full_name": a.FullName,
		"street":    a.Street,
		"city":      a.City,
		"phone":     a.Phone,
	}
}

func savedAddressView(a domain.SavedAddress) map[string]any {
	view := addressView(a.ShippingAddress)
	view["id"] = a.ID
	view["type"] = a.Type
	view["is_default"] = a.IsDefault
	return view
}

// addressFromStruct читает адрес из поля "address" или из корня запроса.
func addressFromStruct(req *structpb.Struct) domain.ShippingAddress {
	src := req.GetFields()["address"].GetStructValue()
	if src == nil {
		src = req
	}
	return domain.ShippingAddress{
		Country:  stringField(src, "country"),
		State:    stringField(src, "state"),
		ZipCode:  stringField(src, "zip_code"),
		FullName: stringField(src, "full_name"),
		Street:   stringField(src, "street"),
		City:     stringField(src, "city"),
		Phone:    stringField(src, "phone"),
	}
}

func timelineView(events []domain.TimelineEvent) []any {
	list := make([]any, 0, len(events))
	for _, ev := range events {
		item := map[string]any{
			"type":     ev.Type,
			"occurred": ev.Occurred.UTC().Format(time.RFC3339Nano),
		}
		if ev.Reason != "" {
			item["reason"] = ev.Reason
		}
		list = append(list, item)
	}
	return list
}
