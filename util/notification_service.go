// api/util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/postly/api/logging"
)

type NotificationService struct {
	// A message-queue client would live here once notifications leave the process
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyPostChange(ctx context.Context, changeType, postID, userID string) error {
	switch changeType {
	case "created", "liked", "unliked", "viewed", "archived", "unarchived":
		logger.Info("NOTIFICATION: Post "+changeType,
			zap.String("postID", postID),
			zap.String("userID", userID))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}
	return nil
}

func (n *NotificationService) NotifyCommentChange(ctx context.Context, changeType, commentID, postID string) error {
	switch changeType {
	case "created", "liked", "unliked":
		logger.Info("NOTIFICATION: Comment "+changeType,
			zap.String("commentID", commentID),
			zap.String("postID", postID))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}
	return nil
}

func (n *NotificationService) NotifyUserChange(ctx context.Context, changeType, userID string) error {
	switch changeType {
	case "signedup", "loggedin", "loggedout":
		logger.Info("NOTIFICATION: User "+changeType, zap.String("userID", userID))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}
	return nil
}
