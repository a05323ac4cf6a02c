package handler

import (
	"strings"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/personalmgr/backend/internal/infrastructure/monitor"
)

func TestRootReportsUnprobedDependenciesAsDegraded(t *testing.T) {
	mon := monitor.New(nil, nil, nil, time.Minute, nil)
	h := NewHealthHandler(mon, nil, nil, "test")

	var ctx fasthttp.RequestCtx
	h.Root(&ctx)

	body := string(ctx.Response.Body())
	if !strings.Contains(body, `"status":"degraded"`) {
		t.Errorf("dependencies never probed should read degraded, got %s", body)
	}
	if !strings.Contains(body, `"environment":"test"`) {
		t.Errorf("environment should be reported, got %s", body)
	}
}
