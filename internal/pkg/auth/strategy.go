package auth

import (
	"time"

	"github.com/kmeans4/phenofarm/internal/domain/model"
)

// Strategy issues and verifies auth tokens carrying the typed principal.
type Strategy interface {
	IssueToken(principal model.Principal) (string, error)
	ParseToken(token string) (model.Principal, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
