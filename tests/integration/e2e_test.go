//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netfolio/netfolio-backend/internal/adapter/session"
	"github.com/netfolio/netfolio-backend/internal/domain"
)

// The e2e suite drives a running engine through its HTTP surface and the
// shared redis session key, the same way the external auth flow does.
// The record provider services are optional: with them absent every
// fetch degrades to an empty bucket and the engine still commits valid
// zero-valued snapshots.
//
// Required environment:
//
//	ENGINE_URL     e.g. http://localhost:8080
//	REDIS_ADDR     e.g. localhost:6379
//	SESSION_SECRET must match the engine's secret
//	SESSION_KEY    optional, defaults to session:current
//	POLL_WAIT_MS   optional, how long to wait for the monitor, default 5000

var (
	engineURL  string
	rdb        *redis.Client
	sessionKey string
	secret     string
	pollWait   time.Duration
)

// TestMain sets up the test environment
func TestMain(m *testing.M) {
	engineURL = os.Getenv("ENGINE_URL")
	redisAddr := os.Getenv("REDIS_ADDR")
	secret = os.Getenv("SESSION_SECRET")
	if engineURL == "" || redisAddr == "" || secret == "" {
		fmt.Println("Skipping e2e suite: ENGINE_URL, REDIS_ADDR and SESSION_SECRET must be set")
		os.Exit(0)
	}

	sessionKey = os.Getenv("SESSION_KEY")
	if sessionKey == "" {
		sessionKey = "session:current"
	}
	pollWait = 5 * time.Second
	if ms := os.Getenv("POLL_WAIT_MS"); ms != "" {
		if parsed, err := time.ParseDuration(ms + "ms"); err == nil {
			pollWait = parsed
		}
	}

	rdb = redis.NewClient(&redis.Options{Addr: redisAddr, Password: os.Getenv("REDIS_PASS")})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}

	os.Exit(m.Run())
}

type netWorthResponse struct {
	Snapshot domain.Snapshot `json:"snapshot"`
	Loading  bool            `json:"loading"`
}

func fetchNetWorth(t *testing.T) netWorthResponse {
	t.Helper()
	resp, err := http.Get(engineURL + "/networth")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body netWorthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func login(t *testing.T, identity uuid.UUID) {
	t.Helper()
	token, err := session.IssueSessionToken(identity, secret, time.Hour)
	require.NoError(t, err)
	require.NoError(t, rdb.Set(context.Background(), sessionKey, token, time.Hour).Err())
}

func logout(t *testing.T) {
	t.Helper()
	require.NoError(t, rdb.Del(context.Background(), sessionKey).Err())
}

// waitForOwner polls the read surface until the snapshot owner matches
// want (nil for "no owner") or the deadline passes.
func waitForOwner(t *testing.T, want *uuid.UUID) netWorthResponse {
	t.Helper()
	deadline := time.Now().Add(pollWait)
	for {
		body := fetchNetWorth(t)
		owner := body.Snapshot.Owner
		if !body.Loading {
			if want == nil && owner == nil {
				return body
			}
			if want != nil && owner != nil && *owner == *want {
				return body
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("snapshot owner never became %v (last: %v, loading=%v)", want, owner, body.Loading)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func TestLoginLogoutCycle(t *testing.T) {
	identity := uuid.New()
	logout(t)
	waitForOwner(t, nil)

	login(t, identity)
	body := waitForOwner(t, &identity)
	assert.True(t, body.Snapshot.NetWorth.Equal(body.Snapshot.TotalAssets.Sub(body.Snapshot.TotalLiabilities)))

	logout(t)
	body = waitForOwner(t, nil)
	assert.True(t, body.Snapshot.NetWorth.IsZero(), "logout must reset to the zero snapshot")
	assert.True(t, body.Snapshot.TotalAssets.IsZero())
}

func TestIdentitySwitchConverges(t *testing.T) {
	userA := uuid.New()
	userB := uuid.New()

	login(t, userA)
	waitForOwner(t, &userA)

	login(t, userB)
	// Whatever intermediate states the monitor surfaces, the read
	// surface must converge on B's snapshot within the poll window.
	deadline := time.Now().Add(pollWait)
	for time.Now().Before(deadline) {
		body := fetchNetWorth(t)
		if owner := body.Snapshot.Owner; owner != nil && *owner == userB && !body.Loading {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("snapshot never switched to the new identity")
}

func TestRefreshEndpointIsIdempotent(t *testing.T) {
	identity := uuid.New()
	login(t, identity)
	waitForOwner(t, &identity)

	refresh := func() netWorthResponse {
		resp, err := http.Post(engineURL+"/networth/refresh", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body netWorthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body
	}

	first := refresh()
	second := refresh()

	assert.True(t, first.Snapshot.NetWorth.Equal(second.Snapshot.NetWorth))
	assert.True(t, first.Snapshot.TotalAssets.Equal(second.Snapshot.TotalAssets))
}

func TestGoalRoundTrip(t *testing.T) {
	identity := uuid.New()
	login(t, identity)
	waitForOwner(t, &identity)

	payload := map[string]any{
		"name":         "Integration goal",
		"targetAmount": "12345.67",
	}
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, engineURL+"/goal", bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	getResp, err := http.Get(engineURL + "/goal")
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var goal domain.Goal
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&goal))
	assert.Equal(t, identity, goal.OwnerID)
	assert.True(t, goal.TargetAmount.Equal(decimal.RequireFromString("12345.67")))
}
