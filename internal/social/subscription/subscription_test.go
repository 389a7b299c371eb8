// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/core/view"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/social/subscription"
	"github.com/taibuivan/vidtube/internal/social/toggle"
	"github.com/taibuivan/vidtube/pkg/pagination"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// memoryGraph is a directed subscriber -> channel graph.
type memoryGraph struct {
	accounts map[string]string
	edges    map[[2]string]bool
}

func newGraph() *memoryGraph {
	return &memoryGraph{accounts: map[string]string{}, edges: map[[2]string]bool{}}
}

func (g *memoryGraph) addAccount(username string) string {
	id := uuid.New()
	g.accounts[id] = username
	return id
}

func (g *memoryGraph) TargetVisible(_ context.Context, _ toggle.Kind, _, targetID string) (bool, error) {
	_, ok := g.accounts[targetID]
	return ok, nil
}

func (g *memoryGraph) Toggle(_ context.Context, _ toggle.Kind, actorID, targetID string) (bool, error) {
	key := [2]string{actorID, targetID}
	if g.edges[key] {
		delete(g.edges, key)
		return false, nil
	}
	g.edges[key] = true
	return true, nil
}

func (g *memoryGraph) subscriberCount(channelID string) int {
	count := 0
	for key := range g.edges {
		if key[1] == channelID {
			count++
		}
	}
	return count
}

func (g *memoryGraph) Subscribers(_ context.Context, channelID string, _ pagination.Params) ([]subscription.Subscriber, int, error) {
	var items []subscription.Subscriber
	for key := range g.edges {
		if key[1] != channelID {
			continue
		}
		items = append(items, subscription.Subscriber{
			Owner:            view.Owner{ID: key[0], Username: g.accounts[key[0]]},
			SubscribersCount: g.subscriberCount(key[0]),
			SubscribedBack:   g.edges[[2]string{channelID, key[0]}],
		})
	}
	return items, len(items), nil
}

func (g *memoryGraph) SubscribedChannels(_ context.Context, subscriberID string, _ pagination.Params) ([]subscription.SubscribedChannel, int, error) {
	var items []subscription.SubscribedChannel
	for key := range g.edges {
		if key[0] == subscriberID {
			items = append(items, subscription.SubscribedChannel{
				Owner:            view.Owner{ID: key[1], Username: g.accounts[key[1]]},
				SubscribersCount: g.subscriberCount(key[1]),
			})
		}
	}
	return items, len(items), nil
}

func newRouter(graph *memoryGraph) *chi.Mux {
	service := subscription.NewService(toggle.NewEngine(graph), graph)
	router := chi.NewRouter()
	router.Mount("/subscriptions", subscription.NewHandler(service).Routes())
	return router
}

func serve(router http.Handler, method, path, principalID string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, nil)
	if principalID != "" {
		request = request.WithContext(ctxutil.WithPrincipal(request.Context(), &sec.AccessClaims{PrincipalID: principalID}))
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestSubscribers_SubscribedBack verifies the mutual flag is computed from the
channel's point of view.
*/
func TestSubscribers_SubscribedBack(t *testing.T) {
	graph := newGraph()
	alice := graph.addAccount("alice")
	bob := graph.addAccount("bob")
	carol := graph.addAccount("carol")
	router := newRouter(graph)

	require.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/subscriptions/c/"+alice, bob).Code)
	require.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/subscriptions/c/"+alice, carol).Code)
	require.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/subscriptions/c/"+bob, alice).Code)

	service := subscription.NewService(toggle.NewEngine(graph), graph)
	page, err := service.ChannelSubscribers(context.Background(), alice, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)

	back := map[string]bool{}
	for _, subscriber := range page.Items {
		back[subscriber.Username] = subscriber.SubscribedBack
	}
	assert.Equal(t, map[string]bool{"bob": true, "carol": false}, back)
}

/*
TestToggleSubscription flips the edge and reports the new state.
*/
func TestToggleSubscription(t *testing.T) {
	graph := newGraph()
	channel := graph.addAccount("alice")
	router := newRouter(graph)

	recorder := serve(router, http.MethodPost, "/subscriptions/c/"+channel, "u1")
	assert.Contains(t, recorder.Body.String(), `"present":true`)
	assert.Contains(t, recorder.Body.String(), `"subscribed":true`)

	recorder = serve(router, http.MethodPost, "/subscriptions/c/"+channel, "u1")
	assert.Contains(t, recorder.Body.String(), `"present":false`)
	assert.Contains(t, recorder.Body.String(), `"subscribed":false`)
	assert.Empty(t, graph.edges)
}

/*
TestRoutes covers optional auth on listings and validation of path ids.
*/
func TestRoutes(t *testing.T) {
	graph := newGraph()
	channel := graph.addAccount("alice")
	router := newRouter(graph)

	tests := []struct {
		name      string
		method    string
		path      string
		principal string
		status    int
	}{
		{"toggle anonymous", http.MethodPost, "/subscriptions/c/" + channel, "", http.StatusUnauthorized},
		{"toggle unknown channel", http.MethodPost, "/subscriptions/c/" + uuid.New(), "u1", http.StatusBadRequest},
		{"toggle malformed channel", http.MethodPost, "/subscriptions/c/abc", "u1", http.StatusBadRequest},
		{"toggle own channel", http.MethodPost, "/subscriptions/c/" + channel, channel, http.StatusBadRequest},
		{"subscribers anonymous", http.MethodGet, "/subscriptions/c/" + channel, "", http.StatusOK},
		{"subscribers malformed", http.MethodGet, "/subscriptions/c/abc", "", http.StatusBadRequest},
		{"channels anonymous", http.MethodGet, "/subscriptions/u/" + channel, "", http.StatusOK},
		{"channels malformed", http.MethodGet, "/subscriptions/u/abc", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, serve(router, tt.method, tt.path, tt.principal).Code)
		})
	}
	assert.Empty(t, graph.edges)
}
