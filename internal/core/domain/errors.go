package domain

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAccountInactive      = errors.New("account is inactive")
	ErrApprovalPending      = errors.New("account approval is pending")
	ErrAmbiguousTarget      = errors.New("message targets both a user and a group")
	ErrMissingTarget        = errors.New("message targets neither a user nor a group")
	ErrNotMessageSender     = errors.New("not the message sender")
)
