// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidtube/internal/platform/metrics"
)

/*
TestRecordToggle splits outcomes by presence.
*/
func TestRecordToggle(t *testing.T) {
	added := testutil.ToFloat64(metrics.ToggleOperations.WithLabelValues("video_like", "added"))
	removed := testutil.ToFloat64(metrics.ToggleOperations.WithLabelValues("video_like", "removed"))

	metrics.RecordToggle("video_like", true)
	metrics.RecordToggle("video_like", false)
	metrics.RecordToggle("video_like", false)

	assert.Equal(t, added+1, testutil.ToFloat64(metrics.ToggleOperations.WithLabelValues("video_like", "added")))
	assert.Equal(t, removed+2, testutil.ToFloat64(metrics.ToggleOperations.WithLabelValues("video_like", "removed")))
}

/*
TestRecordAuthEvent counts success and failure separately.
*/
func TestRecordAuthEvent(t *testing.T) {
	before := testutil.ToFloat64(metrics.AuthEvents.WithLabelValues("login", "failure"))

	metrics.RecordAuthEvent("login", false)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AuthEvents.WithLabelValues("login", "failure")))
}

/*
TestRecordStorageOperation observes into the histogram.
*/
func TestRecordStorageOperation(t *testing.T) {
	metrics.RecordStorageOperation("put", nil, 10*time.Millisecond)
	metrics.RecordStorageOperation("put", errors.New("boom"), 10*time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(metrics.StorageOperationDuration))
}
