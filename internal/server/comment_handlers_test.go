package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamly/internal/models"
)

func TestComments(t *testing.T) {
	env := newTestEnv(t)
	tokenA, _ := env.register(t, "alice", "alice@example.com", "passw0rd1")
	tokenB, _ := env.register(t, "bob", "bob@example.com", "passw0rd1")
	adventure := createAdventure(t, env, tokenA, "West Coast Trail")
	path := "/api/adventure/" + itoa(adventure.ID) + "/comments"

	resp := env.doJSON(t, http.MethodPost, path, tokenB, map[string]string{
		"content": "Looks amazing!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var comment models.Comment
	decodeBody(t, resp, &comment)
	assert.Equal(t, "Looks amazing!", comment.Content)
	assert.Equal(t, adventure.ID, comment.AdventureID)

	t.Run("list includes owner without email", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var comments []models.Comment
		decodeBody(t, resp, &comments)
		require.Len(t, comments, 1)
		assert.Equal(t, "bob", comments[0].Owner.Username)
		assert.Empty(t, comments[0].Owner.Email)
	})

	t.Run("empty content is 422", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodPost, path, tokenB, map[string]string{
			"content": "   ",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("missing adventure is 404", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodPost, "/api/adventure/99999/comments", tokenB, map[string]string{
			"content": "Lost comment",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("only the author can delete", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodDelete, "/api/adventure/comment/"+itoa(comment.ID), tokenA, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		_ = resp.Body.Close()

		resp = env.doJSON(t, http.MethodDelete, "/api/adventure/comment/"+itoa(comment.ID), tokenB, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		_ = resp.Body.Close()

		var count int64
		env.db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&count)
		assert.Zero(t, count)
	})
}
