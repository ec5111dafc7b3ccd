package gateway

import (
	"context"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/github-explorer/internal/domain"
)

// ListNotifications returns the authenticated user's notifications. It
// requires a token.
func (g *GitHubGateway) ListNotifications(ctx context.Context, all, participating bool) ([]*domain.Notification, error) {
	const op = "list notifications"
	g.logger.Println("Gateway: fetching notifications")
	notifications, _, err := g.restClient.Activity.ListNotifications(ctx, &github.NotificationListOptions{
		All:           all,
		Participating: participating,
		ListOptions:   github.ListOptions{PerPage: defaultPerPage},
	})
	if err != nil {
		return nil, g.classify(request{op: op, resource: "notifications", permission: permNotifications}, err)
	}
	result := make([]*domain.Notification, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, &domain.Notification{
			ID:         n.GetID(),
			Repository: n.GetRepository().GetFullName(),
			Title:      n.GetSubject().GetTitle(),
			Type:       n.GetSubject().GetType(),
			Reason:     n.GetReason(),
			Unread:     n.GetUnread(),
			URL:        n.GetSubject().GetURL(),
			UpdatedAt:  n.GetUpdatedAt().Time,
		})
	}
	return result, nil
}
