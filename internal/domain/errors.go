package domain

import "errors"

var (
	// ErrCartEmpty — попытка оформить заказ с пустой корзиной.
	ErrCartEmpty = errors.New("cart is empty")
	// ErrCheckoutInProgress — повторный submit, пока предыдущий ещё выполняется.
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	// ErrCheckoutTimeout — оформление не уложилось в отведённое время.
	ErrCheckoutTimeout = errors.New("checkout timed out")
	// ErrAddressIncomplete — в адресе доставки не заполнено одно из полей.
	ErrAddressIncomplete = errors.New("shipping address is incomplete")
	// ErrAddressNotFound возвращается, если сохранённый адрес не найден.
	ErrAddressNotFound = errors.New("saved address not found")
	// ErrUserIDRequired — не передан идентификатор пользователя.
	ErrUserIDRequired = errors.New("user_id is required")
	// ErrUserNotFound возвращается, если пользователь отсутствует в справочнике.
	ErrUserNotFound = errors.New("user not found")
	// ErrProductNotFound возвращается, если товара нет в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductIDRequired — пустой идентификатор товара.
	ErrProductIDRequired = errors.New("product_id is required")
	// ErrProductPriceInvalid — цена товара должна быть положительной.
	ErrProductPriceInvalid = errors.New("product price must be positive")
	// ErrCurrencyUnknown — код валюты отсутствует в таблице курсов.
	ErrCurrencyUnknown = errors.New("unknown currency code")
	// ErrCurrencyTableInvalid — таблица курсов нарушает инварианты.
	ErrCurrencyTableInvalid = errors.New("invalid currency table")
	// ErrPaymentDeclined — платёж отклонён провайдером.
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrSessionRequired — запрос пришёл без идентификатора сессии.
	ErrSessionRequired = errors.New("session id is required")
	// ErrOrderNotFound возвращается, если по номеру заказа нет событий.
	ErrOrderNotFound = errors.New("order not found")
)

// IsCheckoutRejected сообщает, что submit был отклонён до начала оформления.
func IsCheckoutRejected(err error) bool {
	return errors.Is(err, ErrCheckoutInProgress) ||
		errors.Is(err, ErrCartEmpty) ||
		errors.Is(err, ErrAddressIncomplete)
}
