package helpers

import "context"

// CurrentSubscription resolves a Telegram user ID to a subscription entity via
// a service that implements GetSubscriptionByTelegramID. The generic type T
// allows different projects to supply their own subscription model.
func CurrentSubscription[T any](
	ctx context.Context,
	service interface {
		GetSubscriptionByTelegramID(context.Context, int64) (T, error)
	},
	tgID int64,
) (T, error) {
	var zero T
	if service == nil {
		return zero, nil
	}
	return service.GetSubscriptionByTelegramID(ctx, tgID)
}
