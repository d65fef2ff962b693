package domain

import "strings"

// AddressTypeShipping — единственный тип адреса, который сохраняет checkout.
const AddressTypeShipping = "shipping"

// ShippingAddress — адрес доставки из формы оформления заказа.
type ShippingAddress struct {
	Country  string
	State    string
	ZipCode  string
	FullName string
	Street   string
	City     string
	Phone    string
}

// Complete сообщает, что заполнены все поля адреса. Формат не проверяется.
func (a ShippingAddress) Complete() bool {
	for _, v := range []string{a.Country, a.State, a.ZipCode, a.FullName, a.Street, a.City, a.Phone} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// IsZero сообщает, что форма адреса ещё не заполнялась.
func (a ShippingAddress) IsZero() bool {
	return a == ShippingAddress{}
}

// SavedAddress — адрес, сохранённый в профиле пользователя.
type SavedAddress struct {
	ID        string
	Type      string
	IsDefault bool
	ShippingAddress
}

// DefaultAddress возвращает адрес по умолчанию из списка, если он есть.
func DefaultAddress(addresses []SavedAddress) (SavedAddress, bool) {
	for _, a := range addresses {
		if a.IsDefault {
			return a, true
		}
	}
	return SavedAddress{}, false
}
