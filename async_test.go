package linekit_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/linekit-go/linekit"
	"github.com/linekit-go/linekit/catalog"
	"github.com/linekit-go/linekit/dto"
	"github.com/linekit-go/linekit/synth"
	"github.com/linekit-go/linekit/transport"
)

// newTestPair points a blocking and a non-blocking client at the same
// server, so parity tests observe identical wire behavior.
func newTestPair(t *testing.T, handler http.Handler) (*linekit.Client, *linekit.AsyncClient) {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	opts := []linekit.Option{
		linekit.WithEndpoint(ts.URL),
		linekit.WithDataEndpoint(ts.URL),
		linekit.WithLogger(discardLogger()),
	}

	sync, err := linekit.New(testToken, opts...)
	if err != nil {
		t.Fatalf("building blocking client: %v", err)
	}
	async, err := linekit.NewAsync(testToken, opts...)
	if err != nil {
		t.Fatalf("building non-blocking client: %v", err)
	}
	return sync, async
}

func TestFacades_OneMethodPerEndpoint(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}

	facades := []struct {
		name string
		typ  reflect.Type
	}{
		{"Client", reflect.TypeOf((*linekit.Client)(nil))},
		{"AsyncClient", reflect.TypeOf((*linekit.AsyncClient)(nil))},
	}

	for _, f := range facades {
		for _, d := range cat.List() {
			if _, ok := f.typ.MethodByName(d.Name); !ok {
				t.Errorf("%s is missing a method for endpoint %s", f.name, d.Name)
			}
		}
		if got := f.typ.NumMethod(); got != cat.Len() {
			t.Errorf("%s exposes %d methods, catalog declares %d endpoints", f.name, got, cat.Len())
		}
	}
}

func TestFacades_ResultParity(t *testing.T) {
	t.Parallel()

	sync, async := newTestPair(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"userId":"U1","displayName":"Ada"}`)
	}))

	ctx := context.Background()

	fromSync, err := sync.GetProfile(ctx, "U1")
	if err != nil {
		t.Fatalf("blocking call: %v", err)
	}

	fromAsync, err := async.GetProfile(ctx, "U1").Await(ctx)
	if err != nil {
		t.Fatalf("non-blocking call: %v", err)
	}

	if diff := cmp.Diff(fromSync, fromAsync); diff != "" {
		t.Errorf("facades disagree (-blocking +non-blocking):\n%s", diff)
	}
}

func TestFacades_ErrorParity(t *testing.T) {
	t.Parallel()

	sync, async := newTestPair(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"not found"}`)
	}))

	ctx := context.Background()

	_, syncErr := sync.GetProfile(ctx, "U-missing")
	_, asyncErr := async.GetProfile(ctx, "U-missing").Await(ctx)

	var syncAPI, asyncAPI *transport.APIError
	if !errors.As(syncErr, &syncAPI) {
		t.Fatalf("blocking: expected *APIError, got %T: %v", syncErr, syncErr)
	}
	if !errors.As(asyncErr, &asyncAPI) {
		t.Fatalf("non-blocking: expected *APIError, got %T: %v", asyncErr, asyncErr)
	}

	if syncAPI.StatusCode != asyncAPI.StatusCode {
		t.Errorf("status disagrees: blocking %d, non-blocking %d", syncAPI.StatusCode, asyncAPI.StatusCode)
	}
	if diff := cmp.Diff(syncAPI.Payload, asyncAPI.Payload); diff != "" {
		t.Errorf("payload disagrees (-blocking +non-blocking):\n%s", diff)
	}
}

func TestFacades_ValidationParity(t *testing.T) {
	t.Parallel()

	sync, async := newTestPair(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("a rejected call must never reach the wire")
	}))

	ctx := context.Background()
	to := make([]string, 151)
	for i := range to {
		to[i] = "U1"
	}

	syncErr := sync.Multicast(ctx, to, dto.NewTextMessage("hi"))
	_, asyncErr := async.Multicast(ctx, to, dto.NewTextMessage("hi")).Await(ctx)

	var verr *synth.ValidationError
	if !errors.As(syncErr, &verr) {
		t.Errorf("blocking: expected *ValidationError, got %T", syncErr)
	}
	if !errors.As(asyncErr, &verr) {
		t.Errorf("non-blocking: expected *ValidationError, got %T", asyncErr)
	}
}

func TestCalls_CompleteIndependently(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	var once sync.Once
	releaseSlow := func() { once.Do(func() { close(release) }) }

	_, async := newTestPair(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v2/bot/profile/SLOW" {
			<-release
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"userId":"done"}`)
	}))
	t.Cleanup(releaseSlow)

	ctx := context.Background()

	slow := async.GetProfile(ctx, "SLOW")
	fast := async.GetProfile(ctx, "FAST")

	// The fast call settles while the slow one is still in flight.
	fastCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := fast.Await(fastCtx); err != nil {
		t.Fatalf("fast call should settle first: %v", err)
	}

	select {
	case <-slow.Done():
		t.Fatal("slow call settled before the server released it")
	default:
	}

	releaseSlow()
	if _, err := slow.Await(ctx); err != nil {
		t.Fatalf("slow call: %v", err)
	}
}

func TestCall_AwaitHonorsWaitingContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	var once sync.Once
	releaseCall := func() { once.Do(func() { close(release) }) }

	_, async := newTestPair(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"userId":"U1"}`)
	}))
	t.Cleanup(releaseCall)

	call := async.GetProfile(context.Background(), "U1")

	waitCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := call.Await(waitCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected the waiting deadline to fire, got %v", err)
	}

	// Abandoning one wait does not abandon the call: it still settles
	// and can be awaited again.
	releaseCall()
	profile, err := call.Await(context.Background())
	if err != nil {
		t.Fatalf("second await: %v", err)
	}
	if profile.UserID != "U1" {
		t.Errorf("expected the settled value, got %+v", profile)
	}
}

func TestCall_DoneSelectable(t *testing.T) {
	t.Parallel()

	_, async := newTestPair(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"ready","success":7}`)
	}))

	call := async.GetMessageDeliveryPush(context.Background(), "20260115")

	select {
	case <-call.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("call never settled")
	}

	delivery, err := call.Await(context.Background())
	if err != nil {
		t.Fatalf("await after done: %v", err)
	}
	if delivery.Success != 7 {
		t.Errorf("expected 7, got %d", delivery.Success)
	}
}

func TestAsyncClient_VoidAndValueShapes(t *testing.T) {
	t.Parallel()

	_, async := newTestPair(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v2/bot/richmenu":
			io.WriteString(w, `{"richMenuId":"richmenu-9"}`)
		default:
			io.WriteString(w, `{}`)
		}
	}))

	ctx := context.Background()

	if _, err := async.LeaveRoom(ctx, "R1").Await(ctx); err != nil {
		t.Fatalf("void call: %v", err)
	}

	id, err := async.CreateRichMenu(ctx, validRichMenu()).Await(ctx)
	if err != nil {
		t.Fatalf("create call: %v", err)
	}
	if id != "richmenu-9" {
		t.Errorf("expected richmenu-9, got %q", id)
	}
}
