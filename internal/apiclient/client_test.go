package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"usergraph/internal/config"
	"usergraph/internal/models"
	"usergraph/internal/server"
	"usergraph/internal/testutil"
	"usergraph/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// appDoer routes requests straight into a Fiber app without a listener.
type appDoer struct {
	app *fiber.App
}

func (d appDoer) Do(req *http.Request) (*http.Response, error) {
	return d.app.Test(req, -1)
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := &config.Config{Port: "5000", Env: "test", DBDriver: "sqlite", AllowedOrigins: "*"}
	srv := server.NewServerWithDeps(cfg, testutil.NewSQLiteDB(t), nil)
	return New("http://usergraph.test/api/", WithDoer(appDoer{app: srv.NewApp()}))
}

func TestClient_UserLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	alice, err := c.CreateUser(ctx, validation.CreateUserRequest{Username: "alice", Age: 30, Hobbies: []string{"reading", "gaming"}})
	require.NoError(t, err)
	bob, err := c.CreateUser(ctx, validation.CreateUserRequest{Username: "bob", Age: 28, Hobbies: []string{"reading", "cooking"}})
	require.NoError(t, err)

	require.NoError(t, c.LinkUsers(ctx, alice.ID, bob.ID))

	got, err := c.GetUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.5, got.PopularityScore)
	assert.Equal(t, []string{alice.ID}, got.Friends)

	age := 31
	updated, err := c.UpdateUser(ctx, alice.ID, validation.UpdateUserRequest{Age: &age})
	require.NoError(t, err)
	assert.Equal(t, 31, updated.Age)

	withHobby, err := c.AddHobby(ctx, alice.ID, "chess")
	require.NoError(t, err)
	assert.Contains(t, withHobby.Hobbies, "chess")

	graph, err := c.GetGraph(ctx)
	require.NoError(t, err)
	assert.Len(t, graph.Users, 2)
	assert.Len(t, graph.Edges, 1)

	require.NoError(t, c.UnlinkUsers(ctx, bob.ID, alice.ID))
	require.NoError(t, c.DeleteUser(ctx, alice.ID))

	users, err := c.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)
}

func TestClient_SurfacesServerMessage(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	alice, err := c.CreateUser(ctx, validation.CreateUserRequest{Username: "alice", Age: 30, Hobbies: []string{"x"}})
	require.NoError(t, err)

	err = c.LinkUsers(ctx, alice.ID, alice.ID)
	require.Error(t, err)
	assert.Equal(t, "Cannot link user to themselves", err.Error())
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))

	_, err = c.GetUser(ctx, "nobody")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, models.CodeNotFound, apiErr.Code)
	assert.Equal(t, "User not found", apiErr.Message)
}

func TestClient_NonJSONError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer ts.Close()

	c := New(ts.URL)
	_, err := c.GetGraph(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, StatusCode(err))
	assert.Equal(t, "Bad Gateway", err.Error())
}

func TestStatusCode_NonAPIError(t *testing.T) {
	assert.Equal(t, 0, StatusCode(assert.AnError))
}
