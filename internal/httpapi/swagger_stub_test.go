//go:build !swagger

package httpapi

import (
	"net/http"
	"testing"
)

func TestSwaggerNotMountedByDefault(t *testing.T) {
	h, _, _ := newTestMux(t)
	if w := do(h, http.MethodGet, "/swagger/index.html", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without the swagger tag, got %d", w.Code)
	}
}
