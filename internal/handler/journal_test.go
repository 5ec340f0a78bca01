package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestJournalFlow_EndToEnd walks the happy path a real client takes:
// register, log in, log a completed route, and read it back with its grade.
func TestJournalFlow_EndToEnd(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice")

	rr := doJSON(t, router, http.MethodPost, "/api/journal/", token, map[string]any{
		"route_type": "boulder",
		"difficulty": "7A",
		"flash":      true,
		"date":       "2025-08-01T10:00:00Z",
	})
	assert.Equal(t, http.StatusCreated, rr.Code)

	var created struct {
		ID string `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)

	rr = doJSON(t, router, http.MethodGet, "/api/journal/", token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var entries []struct {
		ID         string `json:"id"`
		RouteType  string `json:"route_type"`
		Difficulty string `json:"difficulty"`
		Flash      bool   `json:"flash"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	if assert.Len(t, entries, 1) {
		assert.Equal(t, created.ID, entries[0].ID)
		assert.Equal(t, "boulder", entries[0].RouteType)
		assert.Equal(t, "7A", entries[0].Difficulty)
		assert.True(t, entries[0].Flash)
	}
}

func TestJournalCreate_RequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/journal/", "", map[string]any{
		"route_type": "boulder",
		"difficulty": "6A",
	})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJournalCreate_MissingDifficulty(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice")

	rr := doJSON(t, router, http.MethodPost, "/api/journal/", token, map[string]any{
		"route_type": "boulder",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp struct {
		Error string `json:"error"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error)
}

// TestJournalUpdate_CrossUserForbidden verifies another user's token cannot
// mutate an entry, and that the entry is untouched afterwards.
func TestJournalUpdate_CrossUserForbidden(t *testing.T) {
	router := newTestRouter(t)
	aliceToken := registerAndLogin(t, router, "alice")
	bobToken := registerAndLogin(t, router, "bob")

	rr := doJSON(t, router, http.MethodPost, "/api/journal/", aliceToken, map[string]any{
		"route_type": "boulder",
		"difficulty": "6A",
	})
	assert.Equal(t, http.StatusCreated, rr.Code)
	var created struct {
		ID string `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = doJSON(t, router, http.MethodPut, "/api/journal/edit/"+created.ID, bobToken, map[string]any{
		"difficulty": "9C",
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Alice's entry is unchanged.
	rr = doJSON(t, router, http.MethodGet, "/api/journal/edit/"+created.ID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	var entry struct {
		Difficulty string `json:"difficulty"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entry))
	assert.Equal(t, "6A", entry.Difficulty)
}

func TestJournalDelete_CrossUserForbidden(t *testing.T) {
	router := newTestRouter(t)
	aliceToken := registerAndLogin(t, router, "alice")
	bobToken := registerAndLogin(t, router, "bob")

	rr := doJSON(t, router, http.MethodPost, "/api/journal/", aliceToken, map[string]any{
		"route_type": "lead",
		"difficulty": "6B",
	})
	var created struct {
		ID string `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = doJSON(t, router, http.MethodDelete, "/api/journal/edit/"+created.ID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/journal/edit/"+created.ID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLeaderboard_OrdersThroughAPI(t *testing.T) {
	router := newTestRouter(t)
	aliceToken := registerAndLogin(t, router, "alice")
	bobToken := registerAndLogin(t, router, "bob")

	for i := 0; i < 3; i++ {
		rr := doJSON(t, router, http.MethodPost, "/api/journal/", aliceToken, map[string]any{
			"route_type": "boulder",
			"difficulty": "6A",
		})
		assert.Equal(t, http.StatusCreated, rr.Code)
	}
	rr := doJSON(t, router, http.MethodPost, "/api/journal/", bobToken, map[string]any{
		"route_type": "boulder",
		"difficulty": "6B",
	})
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/leaderboard/", aliceToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var board []struct {
		Username string `json:"username"`
		Count    int    `json:"completed_routes_count"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &board))
	if assert.Len(t, board, 2) {
		assert.Equal(t, "alice", board[0].Username)
		assert.Equal(t, 3, board[0].Count)
		assert.Equal(t, "bob", board[1].Username)
		assert.Equal(t, 1, board[1].Count)
	}
}

func TestUserDelete_CascadesThroughAPI(t *testing.T) {
	router := newTestRouter(t)
	aliceToken := registerAndLogin(t, router, "alice")
	bobToken := registerAndLogin(t, router, "bob")

	rr := doJSON(t, router, http.MethodPost, "/api/journal/", aliceToken, map[string]any{
		"route_type": "boulder",
		"difficulty": "6A",
	})
	assert.Equal(t, http.StatusCreated, rr.Code)
	rr = doJSON(t, router, http.MethodPost, "/api/goals/", aliceToken, map[string]any{
		"title": "send 7A",
	})
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodDelete, "/api/users/delete", aliceToken, map[string]string{
		"username": "alice",
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	// Alice is gone from search and the leaderboard.
	rr = doJSON(t, router, http.MethodGet, "/api/users/search?username=alice", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/leaderboard/", bobToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "alice")
}
