package grpcsvc

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// toStatus переводит доменную ошибку в gRPC-статус. Неизвестные ошибки
// логируются и скрываются за codes.Internal.
func toStatus(logger *log.Entry, method string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	code := codeOf(err)
	if code == codes.Internal {
		logger.WithError(err).WithField("method", method).Error("request failed")
		return status.Error(codes.Internal, "internal error")
	}
	logger.WithError(err).WithFields(log.Fields{
		"method": method,
		"code":   code.String(),
	}).Debug("request rejected")
	return status.Error(code, err.Error())
}

func codeOf(err error) codes.Code {
	switch {
	case errors.Is(err, domain.ErrSessionRequired),
		errors.Is(err, domain.ErrProductIDRequired),
		errors.Is(err, domain.ErrUserIDRequired),
		errors.Is(err, domain.ErrCurrencyUnknown),
		errors.Is(err, domain.ErrProductPriceInvalid):
		return codes.InvalidArgument
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrAddressNotFound):
		return codes.NotFound
	case errors.Is(err, domain.ErrCartEmpty),
		errors.Is(err, domain.ErrAddressIncomplete),
		errors.Is(err, domain.ErrPaymentDeclined):
		return codes.FailedPrecondition
	case errors.Is(err, domain.ErrCheckoutInProgress):
		return codes.Aborted
	case errors.Is(err, domain.ErrCheckoutTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, domain.ErrUserNotFound):
		return codes.Unauthenticated
	default:
		return codes.Internal
	}
}
