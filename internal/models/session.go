package models

import (
	"time"
)

// SessionInfo mirrors what the session manager keeps in redis for one login
// token.
type SessionInfo struct {
	Token           string    `json:"token"`
	Email           string    `json:"email"`
	RegNo           string    `json:"reg_no"`
	RequestCount    int       `json:"request_count"`
	LastRequestTime time.Time `json:"last_request_dttm_utc"`
	CreatedTime     time.Time `json:"created_dttm_utc"`
}
