package persistence

import (
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func mongoURI(host, port, user, password string) string {
	u := &url.URL{Scheme: "mongodb", Host: fmt.Sprintf("%s:%s", host, port)}
	if user != "" {
		u.User = url.UserPassword(user, password)
	}
	return u.String()
}

// NewMongoDb connects a client; callers ping it before use.
func NewMongoDb(host, port, user, password, name string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(mongoURI(host, port, user, password)).
		SetAppName("review-enhancer").
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)
	if user != "" && name != "" {
		opts.SetAuth(options.Credential{Username: user, Password: password, AuthSource: "admin"})
	}
	return mongo.Connect(opts)
}
