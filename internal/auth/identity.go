package auth

import (
	"context"
	"fmt"

	firebaseAuth "firebase.google.com/go/auth"
)

// Identity verifies session credentials and yields the user ID they belong
// to. Production uses Firebase session cookies; tests inject a stub.
type Identity interface {
	VerifySessionCookie(ctx context.Context, cookie string) (string, error)
}

// FirebaseIdentity verifies Firebase session cookies, including the
// revocation check so disabled or signed-out users are rejected.
type FirebaseIdentity struct {
	client *firebaseAuth.Client
}

func NewFirebaseIdentity(client *firebaseAuth.Client) *FirebaseIdentity {
	return &FirebaseIdentity{client: client}
}

func (f *FirebaseIdentity) VerifySessionCookie(ctx context.Context, cookie string) (string, error) {
	decoded, err := f.client.VerifySessionCookieAndCheckRevoked(ctx, cookie)
	if err != nil {
		return "", fmt.Errorf("error verifying cookie: %v", err)
	}
	return decoded.UID, nil
}
