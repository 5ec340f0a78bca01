package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoalFlow_CreateCompleteDelete(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice")

	rr := doJSON(t, router, http.MethodPost, "/api/goals/", token, map[string]string{
		"title":       "send 7A outdoors",
		"target_date": "2026-06-01",
	})
	assert.Equal(t, http.StatusCreated, rr.Code)

	var goal struct {
		ID        string `json:"id"`
		Completed bool   `json:"completed"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &goal))
	assert.False(t, goal.Completed)

	rr = doJSON(t, router, http.MethodPost, "/api/goals/"+goal.ID+"/complete", token, map[string]bool{
		"completed": true,
	})
	assert.Equal(t, http.StatusOK, rr.Code)
	var completed struct {
		Completed bool `json:"completed"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &completed))
	assert.True(t, completed.Completed)

	rr = doJSON(t, router, http.MethodDelete, "/api/goals/"+goal.ID, token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/goals/", token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestGoalComplete_MissingFlag(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice")

	rr := doJSON(t, router, http.MethodPost, "/api/goals/", token, map[string]string{"title": "goal"})
	var goal struct {
		ID string `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &goal))

	rr = doJSON(t, router, http.MethodPost, "/api/goals/"+goal.ID+"/complete", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAchievements_AddAndListForAnyUser(t *testing.T) {
	router := newTestRouter(t)
	aliceToken := registerAndLogin(t, router, "alice")
	bobToken := registerAndLogin(t, router, "bob")

	rr := doJSON(t, router, http.MethodPost, "/api/achievements/add", aliceToken, map[string]string{
		"achievement_name": "first flash",
		"date":             "2025-07-04",
	})
	assert.Equal(t, http.StatusCreated, rr.Code)

	// Find alice's ID so bob can browse her achievements.
	rr = doJSON(t, router, http.MethodGet, "/api/users/search?username=alice", bobToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	var alice struct {
		ID string `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &alice))

	rr = doJSON(t, router, http.MethodGet, "/api/achievements/user/"+alice.ID, bobToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var achievements []struct {
		Name string `json:"name"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &achievements))
	if assert.Len(t, achievements, 1) {
		assert.Equal(t, "first flash", achievements[0].Name)
	}
}

func TestAchievementAdd_MissingName(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice")

	rr := doJSON(t, router, http.MethodPost, "/api/achievements/add", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
