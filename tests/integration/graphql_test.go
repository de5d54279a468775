package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arlberg/hn-graphql/internal/graph"
	"github.com/arlberg/hn-graphql/internal/testutil"
	"github.com/arlberg/hn-graphql/pkg/hn"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

// setupGraphQL builds the full serving stack against a mock upstream:
// HTTP client, batch loaders, schema, relay handler.
func setupGraphQL(t *testing.T) (*testutil.MockHN, http.Handler) {
	t.Helper()

	mock := testutil.NewMockHN()
	t.Cleanup(mock.Close)

	client := hn.New(hn.Config{BaseURL: mock.URL(), Timeout: 5 * time.Second})

	resolver, err := graph.New(client, graph.Config{Wait: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("Failed to create resolver: %v", err)
	}

	schema, err := graphql.ParseSchema(graph.Schema, resolver, graphql.MaxParallelism(64))
	if err != nil {
		t.Fatalf("Failed to parse schema: %v", err)
	}

	return mock, &relay.Handler{Schema: schema}
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// postQuery sends a query through the relay handler the way a real
// client would and decodes the response envelope.
func postQuery(t *testing.T, handler http.Handler, query string) graphqlResponse {
	t.Helper()

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		t.Fatalf("Failed to marshal query: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /graphql status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp graphqlResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v (body: %s)", err, rec.Body.String())
	}
	return resp
}

// TestTopStoriesWithComments tests the complete request flow: list fetch,
// one batched window for the stories, one shared window for every story's
// comments with duplicate ids collapsed.
func TestTopStoriesWithComments(t *testing.T) {
	mock, handler := setupGraphQL(t)

	mock.SeedList("topstories", 1, 2, 3)
	mock.SeedItem(1, testutil.StoryJSON(1, "pg", "First story", 101, 102))
	mock.SeedItem(2, testutil.StoryJSON(2, "norvig", "Second story", 102, 103))
	mock.SeedItem(3, testutil.StoryJSON(3, "dang", "Beyond the limit"))
	mock.SeedItem(101, testutil.CommentJSON(101, "alice", 1, "comment one"))
	mock.SeedItem(102, testutil.CommentJSON(102, "bob", 1, "shared comment"))
	mock.SeedItem(103, testutil.CommentJSON(103, "carol", 2, "comment three"))

	t.Log("Query: top 2 stories with their comment authors")
	resp := postQuery(t, handler, `{
		top(limit: 2) {
			id
			title
			... on Story {
				kidsConnection {
					id
					author
				}
			}
		}
	}`)

	if len(resp.Errors) != 0 {
		t.Fatalf("Unexpected GraphQL errors: %+v", resp.Errors)
	}

	var data struct {
		Top []struct {
			ID             int32  `json:"id"`
			Title          string `json:"title"`
			KidsConnection []struct {
				ID     int32   `json:"id"`
				Author *string `json:"author"`
			} `json:"kidsConnection"`
		} `json:"top"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}

	if len(data.Top) != 2 {
		t.Fatalf("len(top) = %d, want 2", len(data.Top))
	}
	if data.Top[0].ID != 1 || data.Top[0].Title != "First story" {
		t.Errorf("top[0] = %d %q, want 1 %q", data.Top[0].ID, data.Top[0].Title, "First story")
	}
	if data.Top[1].ID != 2 || data.Top[1].Title != "Second story" {
		t.Errorf("top[1] = %d %q, want 2 %q", data.Top[1].ID, data.Top[1].Title, "Second story")
	}

	wantKids := map[int32][]string{1: {"alice", "bob"}, 2: {"bob", "carol"}}
	for _, story := range data.Top {
		authors := make([]string, 0, len(story.KidsConnection))
		for _, kid := range story.KidsConnection {
			if kid.Author == nil {
				t.Errorf("Story %d kid %d author = nil, want set", story.ID, kid.ID)
				continue
			}
			authors = append(authors, *kid.Author)
		}
		want := wantKids[story.ID]
		if len(authors) != len(want) {
			t.Errorf("Story %d authors = %v, want %v", story.ID, authors, want)
			continue
		}
		for i := range want {
			if authors[i] != want[i] {
				t.Errorf("Story %d authors = %v, want %v", story.ID, authors, want)
				break
			}
		}
	}

	// Comment 102 hangs off both stories but the shared batch window
	// collapses it to a single upstream request.
	if got := mock.ItemRequests(102); got != 1 {
		t.Errorf("Requests for shared comment 102 = %d, want 1", got)
	}
	if got := mock.ItemRequests(3); got != 0 {
		t.Errorf("Requests for story 3 = %d, want 0 (beyond limit)", got)
	}

	// 1 list fetch + 2 stories + 3 distinct comments.
	if got := mock.TotalRequests(); got != 6 {
		t.Errorf("Total upstream requests = %d, want 6", got)
	}
}

// TestFailedItemIsDroppedNotErrored tests that a story the upstream
// cannot serve disappears from the result list without failing the query.
func TestFailedItemIsDroppedNotErrored(t *testing.T) {
	mock, handler := setupGraphQL(t)

	mock.SeedList("topstories", 1, 2)
	mock.SeedItem(1, testutil.StoryJSON(1, "pg", "Survivor"))
	mock.SetResponse("/item/2.json", testutil.MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error":"boom"}`,
	})

	resp := postQuery(t, handler, `{ top { id title } }`)

	if len(resp.Errors) != 0 {
		t.Fatalf("Unexpected GraphQL errors: %+v", resp.Errors)
	}

	var data struct {
		Top []struct {
			ID    int32  `json:"id"`
			Title string `json:"title"`
		} `json:"top"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}

	if len(data.Top) != 1 {
		t.Fatalf("len(top) = %d, want 1 (failed story dropped)", len(data.Top))
	}
	if data.Top[0].ID != 1 {
		t.Errorf("top[0].id = %d, want 1", data.Top[0].ID)
	}
}

// TestListFailureSurfacesError tests that a broken list endpoint, unlike
// a broken item, is reported as a GraphQL error.
func TestListFailureSurfacesError(t *testing.T) {
	mock, handler := setupGraphQL(t)

	mock.SetResponse("/topstories.json", testutil.MockResponse{
		StatusCode: http.StatusServiceUnavailable,
		Body:       `{"error":"maintenance"}`,
	})

	resp := postQuery(t, handler, `{ top { id } }`)

	if len(resp.Errors) == 0 {
		t.Fatal("Expected GraphQL errors for failed list fetch, got none")
	}
}

// TestAliasedUsersShareOneWindow tests that aliased user lookups in a
// single query collapse into one deduplicated batch.
func TestAliasedUsersShareOneWindow(t *testing.T) {
	mock, handler := setupGraphQL(t)

	mock.SeedUser("pg", testutil.UserJSON("pg", 155111, 1, 2))
	mock.SeedUser("dang", testutil.UserJSON("dang", 70000))

	resp := postQuery(t, handler, `{
		a: user(username: "pg") { id karma }
		b: user(username: "dang") { id karma }
		c: user(username: "pg") { id karma }
	}`)

	if len(resp.Errors) != 0 {
		t.Fatalf("Unexpected GraphQL errors: %+v", resp.Errors)
	}

	var data struct {
		A *struct {
			ID    string `json:"id"`
			Karma int32  `json:"karma"`
		} `json:"a"`
		B *struct {
			ID    string `json:"id"`
			Karma int32  `json:"karma"`
		} `json:"b"`
		C *struct {
			ID    string `json:"id"`
			Karma int32  `json:"karma"`
		} `json:"c"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}

	if data.A == nil || data.A.ID != "pg" || data.A.Karma != 155111 {
		t.Errorf("a = %+v, want pg with karma 155111", data.A)
	}
	if data.B == nil || data.B.ID != "dang" || data.B.Karma != 70000 {
		t.Errorf("b = %+v, want dang with karma 70000", data.B)
	}
	if data.C == nil || data.C.ID != "pg" {
		t.Errorf("c = %+v, want pg", data.C)
	}

	if got := mock.Requests("/user/pg.json"); got != 1 {
		t.Errorf("Requests for user pg = %d, want 1 (aliases deduplicated)", got)
	}
	if got := mock.TotalRequests(); got != 2 {
		t.Errorf("Total upstream requests = %d, want 2", got)
	}
}

// TestUnknownLookupsAreNull tests the Firebase null convention end to
// end: unknown ids and usernames render as JSON null, not errors.
func TestUnknownLookupsAreNull(t *testing.T) {
	_, handler := setupGraphQL(t)

	resp := postQuery(t, handler, `{
		item(id: 999) { id }
		user(username: "nobody") { id }
	}`)

	if len(resp.Errors) != 0 {
		t.Fatalf("Unexpected GraphQL errors: %+v", resp.Errors)
	}

	var data struct {
		Item *json.RawMessage `json:"item"`
		User *json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}

	if data.Item != nil {
		t.Errorf("item = %s, want null", *data.Item)
	}
	if data.User != nil {
		t.Errorf("user = %s, want null", *data.User)
	}
}

// TestSequentialQueriesHitUpstreamEveryTime tests that batch windows do
// not cache: a second query for the same story fetches it again.
func TestSequentialQueriesHitUpstreamEveryTime(t *testing.T) {
	mock, handler := setupGraphQL(t)

	mock.SeedItem(42, testutil.StoryJSON(42, "pg", "Fresh every time"))

	for i := 1; i <= 3; i++ {
		resp := postQuery(t, handler, `{ item(id: 42) { id title } }`)
		if len(resp.Errors) != 0 {
			t.Fatalf("Query %d: unexpected GraphQL errors: %+v", i, resp.Errors)
		}
	}

	if got := mock.ItemRequests(42); got != 3 {
		t.Errorf("Requests for item 42 = %d, want 3 (no caching across windows)", got)
	}
}
