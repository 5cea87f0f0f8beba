package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/subscription/armsubscription"
	"github.com/wbuck/azvm-manager/pkg/logger"
	"github.com/wbuck/azvm-manager/pkg/models"
)

func (c *LiveClient) ListSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	logger.LogAzureAPIStart("ListSubscriptions")
	var subs []models.Subscription
	pager := c.subscriptionsClient.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			logger.LogAzureAPIEnd("ListSubscriptions", err)
			return nil, fmt.Errorf("failed to list subscriptions: %w", HandleAzureError(err))
		}
		for _, s := range page.Value {
			subs = append(subs, toSubscription(s))
		}
	}
	logger.LogAzureAPIEnd("ListSubscriptions", nil)
	return subs, nil
}

func (c *LiveClient) GetSubscription(ctx context.Context, subscriptionID string) (models.Subscription, error) {
	logger.LogAzureAPIStart("GetSubscription")
	res, err := c.subscriptionsClient.Get(ctx, subscriptionID, nil)
	logger.LogAzureAPIEnd("GetSubscription", err)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("failed to get subscription %s: %w", subscriptionID, HandleAzureError(err))
	}
	return toSubscription(&res.Subscription), nil
}

func toSubscription(s *armsubscription.Subscription) models.Subscription {
	if s == nil {
		return models.Subscription{}
	}
	sub := models.Subscription{
		ID:             deref(s.ID),
		SubscriptionID: deref(s.SubscriptionID),
		DisplayName:    deref(s.DisplayName),
	}
	if s.State != nil {
		sub.State = string(*s.State)
	}
	return sub
}
