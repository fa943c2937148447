package models

import "time"

type RefreshToken struct {
	Token   string
	AdminID string
	Expires time.Time
}
