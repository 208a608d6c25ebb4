package authn

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
)

func TestIssueParse_RoundTrip(t *testing.T) {
	t.Parallel()
	key := []byte("test-sign-key")
	uid := uuid.Must(uuid.NewV4())

	tok, err := IssueToken(key, uid, time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	got, err := ParseActor(key, tok)
	if err != nil {
		t.Fatalf("ParseActor: %v", err)
	}
	if got != uid {
		t.Fatalf("actor=%s, want %s", got, uid)
	}
}

func TestParseActor_WrongKey(t *testing.T) {
	t.Parallel()
	tok, _ := IssueToken([]byte("key-a"), uuid.Must(uuid.NewV4()), time.Minute)
	if _, err := ParseActor([]byte("key-b"), tok); err == nil {
		t.Fatalf("wrong key must fail")
	}
}

func TestParseActor_Expired(t *testing.T) {
	t.Parallel()
	key := []byte("key")
	tok, _ := IssueToken(key, uuid.Must(uuid.NewV4()), -time.Minute)
	if _, err := ParseActor(key, tok); err == nil {
		t.Fatalf("expired token must fail")
	}
}

func TestActorCtx(t *testing.T) {
	t.Parallel()
	if got := ActorFromCtx(context.Background()); got != uuid.Nil {
		t.Fatalf("empty ctx actor=%s, want nil", got)
	}
	uid := uuid.Must(uuid.NewV4())
	ctx := WithActor(context.Background(), uid)
	if got := ActorFromCtx(ctx); got != uid {
		t.Fatalf("actor=%s, want %s", got, uid)
	}
}
