package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/database"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/models"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/rooms"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func postBoard(t *testing.T, sender string, payload interface{}) (*httptest.ResponseRecorder, models.Message) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userId", sender)
	postJSON(c, "/api/board/messages", payload)
	PostBoardMessage(c)

	var resp struct {
		Message models.Message `json:"message"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp.Message
}

func TestBoardReplyFlow(t *testing.T) {
	SetupTestDB(t)
	gin.SetMode(gin.TestMode)

	createTestUser(t, "S1")
	createTestUser(t, "S2")

	w, top := postBoard(t, "S1", map[string]string{"body": "topic?"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, top.ID)
	assert.Nil(t, top.ReceiverID)

	w, reply := postBoard(t, "S2", map[string]interface{}{"body": "answer", "parentId": top.ID})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, top.ID, *reply.ParentID)

	// Fetch the feed and re-derive thread order
	w = httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/board/messages", nil)
	c.Set("userId", "S1")
	GetBoardMessages(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Messages []models.Message `json:"messages"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Len(t, resp.Messages, 2)

	threads := rooms.PartitionThreads(resp.Messages)
	assert.Len(t, threads.TopLevel, 1)
	assert.Equal(t, top.ID, threads.TopLevel[0].ID)
	assert.Len(t, threads.RepliesByParent[top.ID], 1)
	assert.Equal(t, reply.ID, threads.RepliesByParent[top.ID][0].ID)
	assert.Empty(t, threads.Orphans)
}

func TestBoardReplyToReplyRejected(t *testing.T) {
	SetupTestDB(t)
	gin.SetMode(gin.TestMode)

	createTestUser(t, "S1")

	_, top := postBoard(t, "S1", map[string]string{"body": "topic"})
	_, reply := postBoard(t, "S1", map[string]interface{}{"body": "reply", "parentId": top.ID})

	w, _ := postBoard(t, "S1", map[string]interface{}{"body": "nested", "parentId": reply.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBoardReplyToMissingParent(t *testing.T) {
	SetupTestDB(t)
	gin.SetMode(gin.TestMode)

	createTestUser(t, "S1")

	w, _ := postBoard(t, "S1", map[string]interface{}{"body": "lost", "parentId": "no-such-id"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBoardBlankBodyRejected(t *testing.T) {
	SetupTestDB(t)
	gin.SetMode(gin.TestMode)

	createTestUser(t, "S1")

	w, _ := postBoard(t, "S1", map[string]string{"body": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	database.DB.Model(&models.Message{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
