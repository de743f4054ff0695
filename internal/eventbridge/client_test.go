package eventbridge

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/kingrea/spells-for-muggle/internal/skill"
	"github.com/kingrea/spells-for-muggle/internal/speech"
)

func TestClientInvokeRoundTrip(t *testing.T) {
	calls := 0
	srv := NewServer(testSettings(), WithHandler(countingSkill(&calls)))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := NewClient(ts.URL + "/")
	if client.BaseURL() != ts.URL {
		t.Fatalf("expected trailing slash trimmed, got %s", client.BaseURL())
	}
	envelope, err := client.Invoke(context.Background(), skill.Event{
		Session: skill.Session{New: true, SessionID: "s"},
		Request: skill.Request{Type: skill.RequestLaunch, RequestID: "launch-1"},
	})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if envelope.Version != speech.Version || envelope.Response.ShouldEndSession {
		t.Fatalf("unexpected welcome envelope %+v", envelope)
	}
	if envelope.Response.Card == nil || envelope.Response.Card.Title != "Welcome to Spells for Muggle" {
		t.Fatalf("unexpected card %+v", envelope.Response.Card)
	}
}

func TestClientMapsRemoteErrors(t *testing.T) {
	calls := 0
	srv := NewServer(testSettings(), WithHandler(countingSkill(&calls)))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	_, err := NewClient(ts.URL).Invoke(context.Background(), intentEvent("req-x", "Obliviate"))
	if !errors.Is(err, skill.ErrUnknownIntent) {
		t.Fatalf("expected unknown intent error, got %v", err)
	}
	var remote *RemoteError
	if !errors.As(err, &remote) || remote.Status != 500 {
		t.Fatalf("expected RemoteError with status 500, got %v", err)
	}
}

var (
	_ Handler    = (*skill.Skill)(nil)
	_ Handler    = (*Client)(nil)
	_ Authorizer = (*skill.Skill)(nil)
)
