package urgency

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "samaajseva/pkg/common/errors"
)

func TestClientRelaysUpstream(t *testing.T) {
	var gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case schemaPath:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"fields":["State","Domain"]}`))
		case predictPath:
			b, _ := io.ReadAll(r.Body)
			gotBody = string(b)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"missing Timeline"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	c, err := NewClient(upstream.URL+"/", 2*time.Second)
	require.NoError(t, err)

	resp, err := c.Schema(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"fields":["State","Domain"]}`, string(resp.Body))

	resp, err = c.Predict(context.Background(), []byte(`{"State":"Bihar"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, `{"State":"Bihar"}`, gotBody)
}

func TestClientNotConfigured(t *testing.T) {
	c, err := NewClient("", time.Second)
	require.NoError(t, err)
	assert.False(t, c.Configured())

	_, err = c.Schema(context.Background())
	assert.Equal(t, apperrors.KindUnavailable, apperrors.KindOf(err))
}
