package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"usergraph/internal/config"
	"usergraph/internal/graphstate"
	"usergraph/internal/models"
	"usergraph/internal/server"
	"usergraph/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appDoer struct {
	app *fiber.App
}

func (d appDoer) Do(req *http.Request) (*http.Response, error) {
	return d.app.Test(req, -1)
}

func testOptions(t *testing.T) *options {
	t.Helper()
	cfg := &config.Config{Port: "5000", Env: "test", DBDriver: "sqlite", AllowedOrigins: "*"}
	srv := server.NewServerWithDeps(cfg, testutil.NewSQLiteDB(t), nil)
	return &options{doer: appDoer{app: srv.NewApp()}}
}

func execute(t *testing.T, o *options, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(o)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--api", "http://usergraph.test/api"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands_CreateLinkGraph(t *testing.T) {
	o := testOptions(t)

	out, err := execute(t, o, "--json", "create", "alice", "--age", "30", "--hobby", "reading", "--hobby", "gaming")
	require.NoError(t, err)
	var alice models.UserView
	require.NoError(t, json.Unmarshal([]byte(out), &alice))

	out, err = execute(t, o, "--json", "create", "bob", "--age", "25", "--hobby", "reading")
	require.NoError(t, err)
	var bob models.UserView
	require.NoError(t, json.Unmarshal([]byte(out), &bob))

	out, err = execute(t, o, "link", alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Users linked successfully")

	_, err = execute(t, o, "link", bob.ID, alice.ID)
	require.Error(t, err)
	assert.Equal(t, "Friendship already exists", err.Error())

	out, err = execute(t, o, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "1 edges")
	assert.Contains(t, out, "1.5")

	out, err = execute(t, o, "update", alice.ID, "--age", "31")
	require.NoError(t, err)
	assert.Contains(t, out, "31")

	_, err = execute(t, o, "update", alice.ID)
	assert.Error(t, err)

	_, err = execute(t, o, "delete", alice.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "active friendships")
}

func TestCommands_CreateValidatesLocally(t *testing.T) {
	o := testOptions(t)
	_, err := execute(t, o, "create", "alice", "--age", "200", "--hobby", "x")
	require.Error(t, err)
	assert.Equal(t, "Age is required and must be between 1 and 150", err.Error())
}

func newTestShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()
	o := testOptions(t)
	newRootCmd(o)
	o.timeout = 5 * time.Second
	o.v.Set("API_BASE_URL", "http://usergraph.test/api")

	var out bytes.Buffer
	sh := &shell{
		store: graphstate.NewStore(o.client()),
		out:   &out,
		p:     o.printer(&out),
		o:     o,
	}
	return sh, &out
}

func TestShell_SessionWithUndo(t *testing.T) {
	ctx := context.Background()
	sh, out := newTestShell(t)

	script := strings.Join([]string{
		"create alice 30 reading,gaming",
		"create bob 25 reading,cooking",
		"status",
		"undo",
		"list",
		"redo",
		"bogus",
		"quit",
		"list",
	}, "\n")

	require.NoError(t, sh.run(ctx, strings.NewReader(script)))

	text := out.String()
	assert.Contains(t, text, "history=2/2")
	assert.Contains(t, text, "Undone")
	assert.Contains(t, text, "Redone")
	assert.Contains(t, text, `unknown command "bogus"`)

	assert.Equal(t, 2, sh.store.State().HistoryLen)
}

func TestShell_LinkSelectAndErrors(t *testing.T) {
	ctx := context.Background()
	sh, out := newTestShell(t)
	require.NoError(t, sh.refresh(ctx))

	require.NoError(t, sh.exec(ctx, "create alice 30 reading"))
	require.NoError(t, sh.exec(ctx, "create bob 25 reading"))
	st := sh.store.State()
	require.Len(t, st.Users, 2)
	a, b := st.Users[0].ID, st.Users[1].ID

	require.NoError(t, sh.exec(ctx, "link "+a+" "+b))
	assert.Len(t, sh.store.State().Edges, 1)

	err := sh.exec(ctx, "link "+a+" "+a)
	require.Error(t, err)
	assert.Equal(t, "Cannot link user to themselves", err.Error())

	require.NoError(t, sh.exec(ctx, "select "+a))
	assert.NotNil(t, sh.store.State().Selected)
	require.NoError(t, sh.exec(ctx, "hobby "+a+" board games"))
	assert.Contains(t, sh.store.State().Selected.Hobbies, "board games")

	require.NoError(t, sh.exec(ctx, "update "+a+" age=44 hobbies=chess,go"))
	sel := sh.store.State().Selected
	assert.Equal(t, 44, sel.Age)
	assert.Equal(t, []string{"chess", "go"}, []string(sel.Hobbies))

	assert.Error(t, sh.exec(ctx, "update "+a+" age=abc"))
	assert.Error(t, sh.exec(ctx, "update "+a+" nickname=x"))
	assert.Error(t, sh.exec(ctx, "select nobody"))

	require.NoError(t, sh.exec(ctx, "unlink "+b+" "+a))
	assert.Empty(t, sh.store.State().Edges)
	require.NoError(t, sh.exec(ctx, "delete "+b))
	require.NoError(t, sh.exec(ctx, "clear"))
	assert.Nil(t, sh.store.State().Selected)

	assert.Contains(t, out.String(), "Users unlinked successfully")
}

func TestParseUpdate(t *testing.T) {
	req, err := parseUpdate([]string{"username=neo", "age=33"})
	require.NoError(t, err)
	assert.Equal(t, "neo", *req.Username)
	assert.Equal(t, 33, *req.Age)
	assert.Nil(t, req.Hobbies)

	req, err = parseUpdate([]string{"hobbies=go, chess"})
	require.NoError(t, err)
	require.NotNil(t, req.Hobbies)
	assert.Equal(t, []string{"go", "chess"}, *req.Hobbies)

	for _, pair := range []string{"hobbies=", "hobbies= , "} {
		_, err = parseUpdate([]string{pair})
		require.Error(t, err, pair)
		assert.Equal(t, "Hobbies must be a non-empty array", err.Error())
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}
