package platform

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satriahrh/convoport/internal/domain/catalog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestListProjectsSendsBearerKey(t *testing.T) {
	var gotAuth, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"success":true,"result":[{"projectId":"p1","name":"Demo","useCase":"CHAT_LLM"}]}`)
	})

	projects, err := c.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "/listProjects", gotPath)
	require.Len(t, projects, 1)
	assert.Equal(t, catalog.ProjectID("p1"), projects[0].ID)
	assert.Equal(t, catalog.UseCaseChatLLM, projects[0].UseCase)
}

func TestListDeploymentsScoping(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"success":true,"result":[]}`)
	})

	_, err := c.ListDeployments(context.Background(), "proj_9")
	require.NoError(t, err)
	assert.Equal(t, "projectId=proj_9", gotQuery)

	_, err = c.ListDeployments(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestGetChatSessionFlattensSegmentedText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"result":{
			"chatSessionId":"s1","name":"Session",
			"chatHistory":[
				{"role":"user","text":"plain"},
				{"role":"assistant","text":[{"text":"part one"},{"text":"part two"}]}
			]}}`)
	})

	s, err := c.GetChatSession(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, s.History, 2)
	assert.Equal(t, "plain", s.History[0].Text)
	assert.Equal(t, "part one\npart two", s.History[1].Text)
}

func TestExportConversationEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"result":{"conversationExportHtml":""}}`)
	})

	_, err := c.ExportConversation(context.Background(), "c1")
	assert.ErrorIs(t, err, catalog.ErrEmptyExport)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{}`, catalog.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, `{}`, catalog.ErrUnauthorized},
		{"not found", http.StatusNotFound, `{}`, catalog.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			_, err := c.ListProjects(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEnvelopeFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"error":"quota exhausted"}`)
	})
	_, err := c.ListChatSessions(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exhausted")
}

func TestUploadDocumentMultipart(t *testing.T) {
	var gotDeployment, gotFile string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotDeployment = r.FormValue("deploymentId")
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotFile = hdr.Filename + ":" + string(data)
		fmt.Fprint(w, `{"success":true,"result":{"uploadId":"up_1"}}`)
	})

	id, err := c.UploadDocument(context.Background(), "dep_1", "paper.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "up_1", id)
	assert.Equal(t, "dep_1", gotDeployment)
	assert.Equal(t, "paper.pdf:%PDF-1.4", gotFile)
}

func TestSendMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"message":"Summarize this paper."`)
		fmt.Fprint(w, `{"success":true,"result":{"response":"A summary."}}`)
	})

	resp, err := c.SendMessage(context.Background(), "conv_1", "Summarize this paper.")
	require.NoError(t, err)
	assert.Equal(t, "A summary.", resp)
}
