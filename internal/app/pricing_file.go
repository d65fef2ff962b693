package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/pricing"
	"github.com/vladislavdragonenkov/storefront/internal/shipping"
)

type pricingFile struct {
	Base       string `yaml:"base"`
	Currencies []struct {
		Code   string `yaml:"code"`
		Symbol string `yaml:"symbol"`
		Name   string `yaml:"name"`
		Rate   string `yaml:"rate"`
	} `yaml:"currencies"`
	Shipping *struct {
		FreeThreshold string `yaml:"free_threshold"`
		FlatRate      string `yaml:"flat_rate"`
	} `yaml:"shipping"`
}

// loadPricing читает таблицу курсов и политику доставки. Пустой путь
// возвращает встроенные значения; секции, отсутствующие в файле, тоже.
func loadPricing(path string) (*pricing.Table, shipping.Policy, error) {
	if strings.TrimSpace(path) == "" {
		return pricing.DefaultTable(), shipping.DefaultPolicy(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, shipping.Policy{}, fmt.Errorf("read pricing file: %w", err)
	}
	return parsePricing(raw)
}

func parsePricing(raw []byte) (*pricing.Table, shipping.Policy, error) {
	var file pricingFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, shipping.Policy{}, fmt.Errorf("decode pricing file: %w", err)
	}

	table := pricing.DefaultTable()
	if len(file.Currencies) > 0 {
		currencies := make([]domain.Currency, 0, len(file.Currencies))
		for _, c := range file.Currencies {
			rate, err := decimal.NewFromString(strings.TrimSpace(c.Rate))
			if err != nil {
				return nil, shipping.Policy{}, fmt.Errorf("currency %s: invalid rate %q: %w", c.Code, c.Rate, err)
			}
			currencies = append(currencies, domain.Currency{
				Code:   strings.ToUpper(strings.TrimSpace(c.Code)),
				Symbol: c.Symbol,
				Name:   c.Name,
				Rate:   rate,
			})
		}

		base := file.Base
		if base == "" {
			base = pricing.BaseCurrency
		}
		t, err := pricing.NewTable(base, currencies)
		if err != nil {
			return nil, shipping.Policy{}, err
		}
		table = t
	}

	policy := shipping.DefaultPolicy()
	if file.Shipping != nil {
		threshold, err := decimal.NewFromString(strings.TrimSpace(file.Shipping.FreeThreshold))
		if err != nil {
			return nil, shipping.Policy{}, fmt.Errorf("shipping free_threshold: %w", err)
		}
		flat, err := decimal.NewFromString(strings.TrimSpace(file.Shipping.FlatRate))
		if err != nil {
			return nil, shipping.Policy{}, fmt.Errorf("shipping flat_rate: %w", err)
		}
		policy = shipping.Policy{FreeThreshold: threshold, FlatRate: flat}
		if err := policy.Validate(); err != nil {
			return nil, shipping.Policy{}, err
		}
	}

	return table, policy, nil
}
